package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"ecommerce-catalog/internal/models"
)

const (
	// QueueDefault es la cola de los trabajos en segundo plano
	QueueDefault = "default"
	// TaskMigrateDepartments ejecuta la normalización de departamentos
	TaskMigrateDepartments = "departments:migrate"
)

// MigrateDepartmentsPayload describe una corrida pedida
type MigrateDepartmentsPayload struct {
	BatchSize   int       `json:"batch_size,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewMigrateDepartmentsTask construye la tarea de asynq
func NewMigrateDepartmentsTask(payload MigrateDepartmentsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMigrateDepartments, body,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute),
	), nil
}

// MigrationRunner ejecuta una corrida de la migración
type MigrationRunner interface {
	Run(ctx context.Context) (*models.MigrationResult, error)
}

// RunnerFactory crea un runner para un tamaño de lote; 0 usa el configurado
type RunnerFactory func(batchSize int) MigrationRunner

// MigrationHandler procesa TaskMigrateDepartments
type MigrationHandler struct {
	newRunner RunnerFactory
	logger    *slog.Logger
}

func NewMigrationHandler(newRunner RunnerFactory, logger *slog.Logger) *MigrationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationHandler{newRunner: newRunner, logger: logger}
}

// ProcessTask implementa asynq.Handler
func (h *MigrationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload MigrateDepartmentsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TaskMigrateDepartments, err, asynq.SkipRetry)
	}

	h.logger.InfoContext(ctx, "🚚 department migration task started",
		"batch_size", payload.BatchSize, "request_id", payload.RequestID)

	result, err := h.newRunner(payload.BatchSize).Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "❌ department migration task failed", "error", err)
		return err
	}

	h.logger.InfoContext(ctx, "✅ department migration task finished",
		"updated", result.ProductsUpdated, "complete", result.Complete)
	return nil
}
