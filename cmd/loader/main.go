package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ecommerce-catalog/internal/config"
	"ecommerce-catalog/internal/database"
	"ecommerce-catalog/internal/loader"
	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/repository"
)

func main() {
	var (
		kind    = flag.String("kind", "", "Record kind: "+strings.Join(loader.Kinds(), ", "))
		file    = flag.String("file", "", "Path to a .csv or .xlsx file with a header row")
		replace = flag.Bool("replace", false, "Delete existing documents before loading")
		batch   = flag.Int("batch", loader.DefaultBatchSize, "Documents per insert batch")
	)
	flag.Parse()

	k, err := loader.ParseKind(*kind)
	if err != nil || *file == "" {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(k, *file, *replace, *batch))
}

// run carga el archivo y devuelve el código de salida tras liberar la conexión
func run(kind loader.Kind, file string, replace bool, batch int) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := logging.NewLogger(cfg)

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("❌ connect mongo", slog.Any("error", err))
		return 1
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("⚠️ ensure indexes", slog.Any("error", err))
	}

	report, err := loader.New(repository.NewBulkWriter(db), logger, batch).Load(ctx, kind, file, replace)
	if err != nil {
		logger.Error("❌ load failed", slog.Any("error", err))
		return 1
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
	return 0
}
