package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/jobs"
	"ecommerce-catalog/internal/middleware"
	"ecommerce-catalog/internal/observability"
)

// MigrationQueue encola corridas asíncronas
type MigrationQueue interface {
	EnqueueMigration(ctx context.Context, payload jobs.MigrateDepartmentsPayload) (string, error)
}

type migrateRequest struct {
	BatchSize int `json:"batchSize" binding:"omitempty,min=1,max=10000"`
}

type AdminHandler struct {
	newRunner jobs.RunnerFactory
	queue     MigrationQueue
	metrics   *observability.Metrics
}

// NewAdminHandler crea el handler; queue puede ser nil si no hay Redis
func NewAdminHandler(newRunner jobs.RunnerFactory, queue MigrationQueue, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{newRunner: newRunner, queue: queue, metrics: metrics}
}

// MigrateDepartments ejecuta o encola la migración de departamentos
func (h *AdminHandler) MigrateDepartments(c *gin.Context) {
	var req migrateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				err = apperrors.InvalidJSON(err)
			}
			_ = c.Error(err)
			return
		}
	}

	if c.Query("async") == "true" {
		h.enqueue(c, req)
		return
	}

	result, err := h.newRunner(req.BatchSize).Run(c.Request.Context())
	h.metrics.ObserveMigration(err)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h *AdminHandler) enqueue(c *gin.Context, req migrateRequest) {
	if h.queue == nil {
		_ = c.Error(&apperrors.Error{
			Status:  http.StatusServiceUnavailable,
			Title:   "Job queue unavailable",
			Message: "Async migration requires REDIS_ADDR to be configured",
		})
		return
	}

	taskID, err := h.queue.EnqueueMigration(c.Request.Context(), jobs.MigrateDepartmentsPayload{
		BatchSize:   req.BatchSize,
		RequestID:   middleware.GetRequestID(c),
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"taskId":  taskID,
		"message": "Department migration enqueued",
	})
}
