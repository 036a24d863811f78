package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ecommerce-catalog/internal/cache"
	"ecommerce-catalog/internal/config"
	"ecommerce-catalog/internal/database"
	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/repository"
	"ecommerce-catalog/internal/service"
)

// Códigos de salida
const (
	exitOK         = 0
	exitFailed     = 1
	exitIncomplete = 2
)

func main() {
	var (
		batch = flag.Int("batch", 0, "Products per update batch (default MIGRATION_BATCH_SIZE)")
		help  = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	os.Exit(run(*batch))
}

// run ejecuta la migración; los recursos se liberan antes de devolver el código de salida
func run(batch int) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return exitFailed
	}
	logger := logging.NewLogger(cfg)

	batchSize := cfg.MigrationBatchSize
	if batch > 0 {
		batchSize = batch
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("❌ connect mongo", slog.Any("error", err))
		return exitFailed
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Error("❌ ensure indexes", slog.Any("error", err))
		return exitFailed
	}

	// Sin Redis no hay caché compartido que invalidar
	store, closeCache, err := cache.Open(ctx, cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		logger.Warn("⚠️ redis unavailable, cached summaries will expire by TTL", slog.Any("error", err))
		store, closeCache = nil, func() error { return nil }
	}
	defer func() { _ = closeCache() }()

	fmt.Println("🚀 Starting department migration")
	migrator := service.NewMigrator(
		repository.NewProductRepository(db),
		repository.NewDepartmentRepository(db),
		store, logger, batchSize,
	)
	result, err := migrator.Run(ctx)
	if err != nil {
		logger.Error("❌ migration failed", slog.Any("error", err))
		return exitFailed
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	code := exitCode(result)
	if code == exitIncomplete {
		fmt.Printf("⚠️  %d products still have a department name but no department_id\n", result.ProductsWithoutDepartmentID)
	} else {
		fmt.Println("✅ Migration completed successfully!")
	}
	return code
}

func exitCode(result *models.MigrationResult) int {
	if result == nil {
		return exitFailed
	}
	if !result.Complete {
		return exitIncomplete
	}
	return exitOK
}

func showHelp() {
	fmt.Println(`Department migration

Moves the legacy products.department string into the departments collection
and sets products.department_id. Safe to run more than once.

Usage:
  go run ./cmd/migrate [options]

Options:
  -batch N   Products per update batch (default MIGRATION_BATCH_SIZE or 1000)
  -help      Show this help

Environment:
  MONGO_URI, MONGO_DB, REDIS_ADDR, MIGRATION_BATCH_SIZE`)
}
