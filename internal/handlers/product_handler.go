package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/service"
)

// CatalogService son las consultas que exponen los handlers
type CatalogService interface {
	ListProducts(ctx context.Context, filter models.ProductFilter, page service.PageRequest) (*service.ProductPage, error)
	Categories(ctx context.Context, limit int) ([]service.CategorySummary, error)
	Brands(ctx context.Context, limit int) ([]service.BrandSummary, error)
	Product(ctx context.Context, id string) (*models.ProductDetail, error)
	Departments(ctx context.Context, includeStats bool, sort models.DepartmentSort) ([]models.DepartmentSummary, error)
	Department(ctx context.Context, id string) (*models.DepartmentDetail, error)
	DepartmentProducts(ctx context.Context, id string, page service.PageRequest) (*service.DepartmentProducts, error)
}

type ProductHandler struct {
	catalog CatalogService
}

func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts lista productos con paginación y filtros
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, err := service.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultPageLimit, service.MaxPageLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	minPrice, maxPrice, err := service.ParsePriceRange(c.Query("minPrice"), c.Query("maxPrice"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	filter := models.ProductFilter{
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		Department: c.Query("department"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Search:     c.Query("search"),
	}

	result, err := h.catalog.ListProducts(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Products,
		"pagination": result.Pagination,
		"filters": gin.H{
			"category":   filter.Category,
			"brand":      filter.Brand,
			"department": filter.Department,
			"minPrice":   minPrice,
			"maxPrice":   maxPrice,
			"search":     filter.Search,
		},
	})
}

// ListCategories resume productos por categoría
func (h *ProductHandler) ListCategories(c *gin.Context) {
	limit, err := service.ParseLimit(c.Query("limit"), 0, service.MaxPageLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	categories, err := h.catalog.Categories(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories, "total": len(categories)})
}

// ListBrands resume productos por marca
func (h *ProductHandler) ListBrands(c *gin.Context) {
	limit, err := service.ParseLimit(c.Query("limit"), service.DefaultBrandLimit, service.MaxPageLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	brands, err := h.catalog.Brands(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": brands, "total": len(brands)})
}

// GetProduct obtiene un producto por id natural o por _id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}
