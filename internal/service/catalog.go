package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/cache"
	"ecommerce-catalog/internal/models"
)

const DefaultBrandLimit = 50

// CategorySummary es una fila de /api/products/categories
type CategorySummary struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// BrandSummary es una fila de /api/products/brands
type BrandSummary struct {
	Brand    string  `json:"brand"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// ProductPage es una página del listado de productos
type ProductPage struct {
	Products   []models.Product
	Pagination Pagination
}

// Catalog resuelve las consultas de productos y departamentos
type Catalog struct {
	products    ProductStore
	departments DepartmentStore
	cache       cache.Store
	ttl         time.Duration
	logger      *slog.Logger
}

func NewCatalog(products ProductStore, departments DepartmentStore, store cache.Store, ttl time.Duration, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		products:    products,
		departments: departments,
		cache:       store,
		ttl:         ttl,
		logger:      logger,
	}
}

// ListProducts lista productos filtrados, con búsqueda y conteo en paralelo
func (s *Catalog) ListProducts(ctx context.Context, filter models.ProductFilter, page PageRequest) (*ProductPage, error) {
	if strings.TrimSpace(filter.Department) != "" {
		ids, err := s.departments.FindIDsByNameMatch(ctx, filter.Department)
		if err != nil {
			return nil, err
		}
		filter.DepartmentIDs = ids
	}

	opts := models.FindOptions{
		Skip:   page.Skip(),
		Limit:  int64(page.Limit),
		SortBy: "created_at",
		Order:  models.Desc,
	}
	products, total, err := s.findAndCount(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return &ProductPage{Products: products, Pagination: NewPagination(page, total)}, nil
}

func (s *Catalog) findAndCount(ctx context.Context, filter models.ProductFilter, opts models.FindOptions) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.Find(gctx, filter, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.products.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, total, nil
}

// Categories resume productos por categoría. limit 0 devuelve todas.
func (s *Catalog) Categories(ctx context.Context, limit int) ([]CategorySummary, error) {
	key := fmt.Sprintf("%scategories:%d", CacheKeyPrefix, limit)
	return cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]CategorySummary, error) {
		stats, err := s.products.GroupStats(ctx, "category", limit)
		if err != nil {
			return nil, err
		}
		out := make([]CategorySummary, 0, len(stats))
		for _, st := range stats {
			out = append(out, CategorySummary{Category: st.Key, Count: st.Count, AvgPrice: st.AvgPrice})
		}
		return out, nil
	})
}

// Brands resume productos por marca
func (s *Catalog) Brands(ctx context.Context, limit int) ([]BrandSummary, error) {
	if limit <= 0 {
		limit = DefaultBrandLimit
	}
	key := fmt.Sprintf("%sbrands:%d", CacheKeyPrefix, limit)
	return cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]BrandSummary, error) {
		stats, err := s.products.GroupStats(ctx, "brand", limit)
		if err != nil {
			return nil, err
		}
		out := make([]BrandSummary, 0, len(stats))
		for _, st := range stats {
			out = append(out, BrandSummary{Brand: st.Key, Count: st.Count, AvgPrice: st.AvgPrice})
		}
		return out, nil
	})
}

// Product busca por id natural y, si parece un ObjectId, por _id
func (s *Catalog) Product(ctx context.Context, rawID string) (*models.ProductDetail, error) {
	id := strings.TrimSpace(rawID)
	if id == "" {
		return nil, apperrors.Validation("id", "Invalid product ID", "Product ID is required")
	}

	product, err := s.products.FindByNaturalID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) && primitive.IsValidObjectID(id) {
		oid, _ := primitive.ObjectIDFromHex(id)
		product, err = s.products.FindByObjectID(ctx, oid)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found", fmt.Sprintf("No product found with ID: %s", id))
	}
	if err != nil {
		return nil, err
	}

	if product.DepartmentID != nil {
		dept, err := s.departments.FindByID(ctx, *product.DepartmentID)
		switch {
		case err == nil:
			product.DepartmentInfo = dept.Ref()
		case !errors.Is(err, apperrors.ErrNotFound):
			s.logger.WarnContext(ctx, "department lookup failed", "product", id, "error", err)
		}
	}

	margin, percentage := Profit(product.Cost, product.RetailPrice)
	return &models.ProductDetail{
		Product:          *product,
		ProfitMargin:     margin,
		ProfitPercentage: percentage,
	}, nil
}
