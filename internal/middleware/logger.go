package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger registra cada petición con slog
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", GetRequestID(c),
		}
		// Parámetros de query solo en GET
		if c.Request.Method == http.MethodGet && c.Request.URL.RawQuery != "" {
			attrs = append(attrs, "query", c.Request.URL.Query())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(c.Request.Context(), "📡 request", attrs...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(c.Request.Context(), "📡 request", attrs...)
		default:
			logger.InfoContext(c.Request.Context(), "📡 request", attrs...)
		}
	}
}
