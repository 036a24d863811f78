package service

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/cache"
	"ecommerce-catalog/internal/models"
)

// DepartmentProducts es una página de productos de un departamento
type DepartmentProducts struct {
	Department models.Department
	Products   []models.Product
	Pagination Pagination
}

// Departments lista los departamentos con estadísticas opcionales
func (s *Catalog) Departments(ctx context.Context, includeStats bool, sort models.DepartmentSort) ([]models.DepartmentSummary, error) {
	if sort == "" {
		sort = models.SortByName
	}
	if !sort.Valid() {
		return nil, apperrors.Validation("sort", "Invalid sort parameter",
			"sort must be one of name, -name, product_count, -product_count")
	}

	key := fmt.Sprintf("%sdepartments:%t:%s", CacheKeyPrefix, includeStats, sort)
	return cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]models.DepartmentSummary, error) {
		return s.departments.ListWithStats(ctx, includeStats, sort)
	})
}

// Department devuelve un departamento con sus estadísticas de precio
func (s *Catalog) Department(ctx context.Context, rawID string) (*models.DepartmentDetail, error) {
	dept, err := s.lookupDepartment(ctx, rawID)
	if err != nil {
		return nil, err
	}

	stats, err := s.products.DepartmentStats(ctx, models.DepartmentScope{ID: dept.ID, Name: dept.Name})
	if err != nil {
		return nil, err
	}
	stats.AvgPrice = Round2(stats.AvgPrice)
	stats.MinPrice = Round2(stats.MinPrice)
	stats.MaxPrice = Round2(stats.MaxPrice)
	if stats.TopBrands == nil {
		stats.TopBrands = []models.BrandCount{}
	}

	return &models.DepartmentDetail{Department: *dept, DepartmentStats: *stats}, nil
}

// DepartmentProducts lista los productos de un departamento ordenados por nombre
func (s *Catalog) DepartmentProducts(ctx context.Context, rawID string, page PageRequest) (*DepartmentProducts, error) {
	dept, err := s.lookupDepartment(ctx, rawID)
	if err != nil {
		return nil, err
	}

	filter := models.ProductFilter{Scope: &models.DepartmentScope{ID: dept.ID, Name: dept.Name}}
	opts := models.FindOptions{
		Skip:   page.Skip(),
		Limit:  int64(page.Limit),
		SortBy: "name",
		Order:  models.Asc,
	}
	products, total, err := s.findAndCount(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return &DepartmentProducts{
		Department: *dept,
		Products:   products,
		Pagination: NewPagination(page, total),
	}, nil
}

func (s *Catalog) lookupDepartment(ctx context.Context, rawID string) (*models.Department, error) {
	oid, err := ParseDepartmentID(rawID)
	if err != nil {
		return nil, err
	}

	dept, err := s.departments.FindByID(ctx, oid)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("Department not found",
			fmt.Sprintf("Department with ID %s does not exist", oid.Hex()))
	}
	if err != nil {
		return nil, err
	}
	return dept, nil
}
