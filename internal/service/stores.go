package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-catalog/internal/models"
)

// CacheKeyPrefix agrupa las claves de caché del catálogo
const CacheKeyPrefix = "catalog:"

// ProductStore es la persistencia de lectura de productos
type ProductStore interface {
	Find(ctx context.Context, filter models.ProductFilter, opts models.FindOptions) ([]models.Product, error)
	Count(ctx context.Context, filter models.ProductFilter) (int64, error)
	FindByNaturalID(ctx context.Context, id string) (*models.Product, error)
	FindByObjectID(ctx context.Context, oid primitive.ObjectID) (*models.Product, error)
	GroupStats(ctx context.Context, field string, limit int) ([]models.GroupStat, error)
	DepartmentStats(ctx context.Context, scope models.DepartmentScope) (*models.DepartmentStats, error)
}

// DepartmentStore es la persistencia de departamentos
type DepartmentStore interface {
	FindByName(ctx context.Context, name string) (*models.Department, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
	Create(ctx context.Context, dept *models.Department) error
	FindIDsByNameMatch(ctx context.Context, term string) ([]primitive.ObjectID, error)
	ListWithStats(ctx context.Context, includeStats bool, sort models.DepartmentSort) ([]models.DepartmentSummary, error)
}

// MigrationStore son las operaciones sobre productos que usa la migración
type MigrationStore interface {
	DistinctLegacyDepartments(ctx context.Context) ([]string, error)
	FindUnassignedBatch(ctx context.Context, legacyNames []string, after primitive.ObjectID, limit int) ([]models.Product, error)
	AssignDepartments(ctx context.Context, assignments []models.DepartmentAssignment) (int64, error)
	CountWithDepartmentID(ctx context.Context) (int64, error)
	CountMissingDepartmentID(ctx context.Context) (int64, error)
}
