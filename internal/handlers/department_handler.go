package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/service"
)

type DepartmentHandler struct {
	catalog CatalogService
}

func NewDepartmentHandler(catalog CatalogService) *DepartmentHandler {
	return &DepartmentHandler{catalog: catalog}
}

// ListDepartments lista los departamentos
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	includeStats, err := strconv.ParseBool(c.DefaultQuery("includeStats", "true"))
	if err != nil {
		_ = c.Error(apperrors.Validation("includeStats", "Invalid includeStats parameter", "includeStats must be true or false"))
		return
	}

	departments, err := h.catalog.Departments(c.Request.Context(), includeStats, models.DepartmentSort(c.Query("sort")))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "departments": departments, "total": len(departments)})
}

// GetDepartment devuelve un departamento con estadísticas
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	department, err := h.catalog.Department(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": department})
}

// GetDepartmentProducts lista los productos de un departamento
func (h *DepartmentHandler) GetDepartmentProducts(c *gin.Context) {
	page, err := service.ParsePage(c.Query("page"), c.Query("limit"), service.DefaultPageLimit, service.MaxPageLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.catalog.DepartmentProducts(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"department":     result.Department.Name,
		"departmentInfo": result.Department.Ref(),
		"products":       result.Products,
		"pagination":     result.Pagination,
	})
}
