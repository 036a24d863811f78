package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"ecommerce-catalog/internal/cache"
	"ecommerce-catalog/internal/config"
	"ecommerce-catalog/internal/database"
	"ecommerce-catalog/internal/handlers"
	"ecommerce-catalog/internal/jobs"
	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/observability"
	"ecommerce-catalog/internal/repository"
	"ecommerce-catalog/internal/routes"
	"ecommerce-catalog/internal/service"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg)
	slog.SetDefault(logger)

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("❌ connect mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect", slog.Any("error", err))
		}
	}()
	logger.Info("✅ Connected to MongoDB", "database", cfg.MongoDB)
	db := client.Database(cfg.MongoDB)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("⚠️ ensure indexes", slog.Any("error", err))
	}

	store, closeCache, err := cache.Open(ctx, cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		logger.Warn("⚠️ redis unavailable, using in-memory cache", slog.Any("error", err))
		store, closeCache, _ = cache.Open(ctx, "", cfg.CacheTTL)
	}
	defer func() { _ = closeCache() }()

	var queue handlers.MigrationQueue
	if cfg.RedisAddr != "" {
		jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() { _ = jobClient.Close() }()
		queue = jobClient
	}

	metrics := observability.NewMetrics()
	products := repository.NewProductRepository(db)
	departments := repository.NewDepartmentRepository(db)
	catalog := service.NewCatalog(products, departments, store, cfg.CacheTTL, logger)

	newMigrator := func(batchSize int) jobs.MigrationRunner {
		if batchSize == 0 {
			batchSize = cfg.MigrationBatchSize
		}
		return service.NewMigrator(products, departments, store, logger, batchSize).
			WithObserver(metrics.ObserveMigrationBatch)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.RegisterRoutes(router, routes.Handlers{
		Products:    handlers.NewProductHandler(catalog),
		Departments: handlers.NewDepartmentHandler(catalog),
		Admin:       handlers.NewAdminHandler(newMigrator, queue, metrics),
		Reference: handlers.NewReferenceHandler(
			repository.NewCollection[models.User](db, repository.UsersCollection, "created_at"),
			repository.NewCollection[models.Order](db, repository.OrdersCollection, "created_at"),
		),
		Health: handlers.NewHealthHandler(database.Pinger{Client: client}, version),
	}, routes.Options{
		Logger:         logger,
		Production:     cfg.IsProduction(),
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🚀 Server running", "addr", cfg.Addr(), "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
