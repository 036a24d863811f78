package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/service"
)

// Límite máximo de los listados de referencia
const referenceMaxLimit = 50

// Pager pagina una colección de referencia
type Pager[T any] interface {
	Page(ctx context.Context, skip, limit int64) ([]T, int64, error)
}

type ReferenceHandler struct {
	users  Pager[models.User]
	orders Pager[models.Order]
}

func NewReferenceHandler(users Pager[models.User], orders Pager[models.Order]) *ReferenceHandler {
	return &ReferenceHandler{users: users, orders: orders}
}

// ListUsers lista clientes
func (h *ReferenceHandler) ListUsers(c *gin.Context) {
	listPage(c, h.users)
}

// ListOrders lista órdenes
func (h *ReferenceHandler) ListOrders(c *gin.Context) {
	listPage(c, h.orders)
}

func listPage[T any](c *gin.Context, pager Pager[T]) {
	page, err := service.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultPageLimit, 0)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page = page.Clamp(referenceMaxLimit)

	items, total, err := pager.Page(c.Request.Context(), page.Skip(), int64(page.Limit))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       items,
		"pagination": service.NewPagination(page, total),
	})
}
