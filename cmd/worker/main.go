package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"ecommerce-catalog/internal/cache"
	"ecommerce-catalog/internal/config"
	"ecommerce-catalog/internal/database"
	"ecommerce-catalog/internal/jobs"
	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/repository"
	"ecommerce-catalog/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := logging.NewLogger(cfg)

	if cfg.RedisAddr == "" {
		logger.Error("❌ REDIS_ADDR is required for the worker")
		return 1
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("❌ connect mongo", slog.Any("error", err))
		return 1
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	store, closeCache, err := cache.Open(ctx, cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		logger.Error("❌ connect redis", slog.Any("error", err))
		return 1
	}
	defer func() { _ = closeCache() }()

	products := repository.NewProductRepository(db)
	departments := repository.NewDepartmentRepository(db)
	newMigrator := func(batchSize int) jobs.MigrationRunner {
		if batchSize == 0 {
			batchSize = cfg.MigrationBatchSize
		}
		return service.NewMigrator(products, departments, store, logger, batchSize)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Migration: jobs.NewMigrationHandler(newMigrator, logger),
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		return 1
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		return 1
	}
	return 0
}
