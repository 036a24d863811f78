package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger verifica la conexión con la base de datos
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	started time.Time
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now(), version: version}
}

// Root responde el banner de la API
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "E-commerce API is running!",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Health informa el estado del proceso y de MongoDB
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	database := "Connected"
	if h.db == nil || h.db.Ping(ctx) != nil {
		database = "Disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "OK",
		"database": database,
		"uptime":   time.Since(h.started).Seconds(),
	})
}
