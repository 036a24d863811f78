package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-catalog/internal/apperrors"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageRequest es una página ya validada
type PageRequest struct {
	Page  int
	Limit int
}

// Skip devuelve el desplazamiento de la página
func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Clamp recorta el límite sin rechazarlo
func (p PageRequest) Clamp(max int) PageRequest {
	if p.Limit > max {
		p.Limit = max
	}
	return p
}

// Pagination es el bloque de paginación de las respuestas
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

func NewPagination(req PageRequest, total int64) Pagination {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Pagination{
		CurrentPage:  req.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: req.Limit,
		HasNext:      req.Page < totalPages,
		HasPrev:      req.Page > 1,
	}
}

// ParsePage valida page y limit de la query. maxLimit 0 no impone tope.
func ParsePage(pageRaw, limitRaw string, defaultLimit, maxLimit int) (PageRequest, error) {
	req := PageRequest{Page: 1, Limit: defaultLimit}

	if s := strings.TrimSpace(pageRaw); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return req, apperrors.Validation("page", "Invalid page parameter", "Page must be a positive integer (≥ 1)")
		}
		req.Page = page
	}

	if s := strings.TrimSpace(limitRaw); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			return req, apperrors.Validation("limit", "Invalid limit parameter", "Limit must be a positive integer (≥ 1)")
		}
		if maxLimit > 0 && limit > maxLimit {
			return req, apperrors.Validation("limit", "Invalid limit parameter",
				fmt.Sprintf("Limit cannot exceed %d items per page", maxLimit))
		}
		req.Limit = limit
	}

	// El desplazamiento (page-1)*limit debe caber en int64
	if int64(req.Page-1) > math.MaxInt64/int64(req.Limit) {
		return req, apperrors.Validation("page", "Invalid page parameter", "Page must be a positive integer (≥ 1)")
	}

	return req, nil
}

// ParseLimit valida un límite opcional de resumen dentro de [1, max]
func ParseLimit(raw string, defaultLimit, max int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit < 1 {
		return 0, apperrors.Validation("limit", "Invalid limit parameter", "Limit must be a positive integer (≥ 1)")
	}
	if limit > max {
		return 0, apperrors.Validation("limit", "Invalid limit parameter",
			fmt.Sprintf("Limit cannot exceed %d items per page", max))
	}
	return limit, nil
}

// ParsePriceRange valida minPrice y maxPrice
func ParsePriceRange(minRaw, maxRaw string) (min, max *float64, err error) {
	if min, err = parsePrice("minPrice", minRaw); err != nil {
		return nil, nil, err
	}
	if max, err = parsePrice("maxPrice", maxRaw); err != nil {
		return nil, nil, err
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, apperrors.Validation("minPrice", "Invalid price range", "minPrice cannot be greater than maxPrice")
	}
	return min, max, nil
}

func parsePrice(field, raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, apperrors.Validation(field,
			fmt.Sprintf("Invalid %s parameter", field),
			fmt.Sprintf("%s must be a positive number", field))
	}
	return &v, nil
}

// ParseDepartmentID valida un ObjectId de departamento
func ParseDepartmentID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID("Invalid department ID", "Department ID must be a valid MongoDB ObjectId")
	}
	return oid, nil
}
