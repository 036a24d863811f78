package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Worker envuelve el servidor de asynq
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// WorkerConfig reúne las dependencias del worker
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      *slog.Logger
	Concurrency int
	Migration   *MigrationHandler
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Migration == nil {
		return nil, errors.New("worker: migration handler required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		// Una sola migración a la vez
		cfg.Concurrency = 1
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.Handle(TaskMigrateDepartments, cfg.Migration)

	return &Worker{server: srv, mux: mux, logger: cfg.Logger}, nil
}

// Run procesa tareas hasta que se cancele el contexto
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	w.logger.Info("👷 worker started", "queue", QueueDefault)

	<-ctx.Done()
	w.logger.Info("🛑 worker shutting down")
	w.server.Shutdown()
	return ctx.Err()
}

// Client encola tareas
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueMigration encola una corrida y devuelve el id de la tarea
func (c *Client) EnqueueMigration(ctx context.Context, payload MigrateDepartmentsPayload) (string, error) {
	task, err := NewMigrateDepartmentsTask(payload)
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// Close libera el cliente
func (c *Client) Close() error {
	return c.client.Close()
}
