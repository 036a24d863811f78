package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecommerce-catalog/internal/apperrors"
)

const redactedMessage = "Something went wrong on our end"

// Classify traduce un error al status y cuerpo de la respuesta
func Classify(err error, production bool) (int, gin.H) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fe.Error())
		}
		return http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation Error",
			"message": err.Error(),
			"details": details,
		}
	}

	if appErr, ok := apperrors.As(err); ok {
		body := gin.H{"success": false, "error": appErr.Title, "message": appErr.Message}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		if appErr.Status >= http.StatusInternalServerError && production {
			body["message"] = redactedMessage
		}
		return appErr.Status, body
	}

	switch {
	case mongo.IsDuplicateKeyError(err), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, gin.H{"success": false, "error": "Duplicate entry", "message": "Resource already exists"}
	case errors.Is(err, primitive.ErrInvalidHex):
		return http.StatusBadRequest, gin.H{"success": false, "error": "Invalid ID format", "message": "The provided ID is not in a valid format"}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, gin.H{"success": false, "error": "Resource not found", "message": err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, gin.H{"success": false, "error": "Request timeout", "message": "The request took too long to complete"}
	}

	message := err.Error()
	if production {
		message = redactedMessage
	}
	return http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error", "message": message}
}

// ErrorHandler escribe el sobre de error para el último error del contexto
func ErrorHandler(logger *slog.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := Classify(err, production)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "🚨 unhandled error",
				"error", err, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
		}
		c.JSON(status, body)
	}
}

// Recovery convierte un panic en la respuesta 500 estándar
func Recovery(logger *slog.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := apperrors.Internal(fmt.Sprintf("panic: %v", recovered), nil)
		logger.ErrorContext(c.Request.Context(), "🚨 panic recovered",
			"error", err, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
		status, body := Classify(err, production)
		c.AbortWithStatusJSON(status, body)
	})
}

// NotFound responde a rutas desconocidas con las rutas disponibles
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
			"message": fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.RequestURI()),
			"availableRoutes": gin.H{
				"products":    "/api/products",
				"categories":  "/api/products/categories",
				"brands":      "/api/products/brands",
				"departments": "/api/departments",
				"users":       "/api/users",
				"orders":      "/api/orders",
				"health":      "/health",
				"metrics":     "/metrics",
				"root":        "/",
			},
		})
	}
}
