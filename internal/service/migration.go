package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/cache"
	"ecommerce-catalog/internal/models"
)

const DefaultMigrationBatchSize = 1000

// BatchObserver recibe el avance de cada lote de la migración
type BatchObserver func(batch int, updated int64)

// Migrator normaliza el campo department legado a la colección departments.
// Es idempotente: una segunda corrida no crea departamentos ni cambia asignaciones.
type Migrator struct {
	products    MigrationStore
	departments DepartmentStore
	cache       cache.Store
	logger      *slog.Logger
	batchSize   int
	observer    BatchObserver
}

func NewMigrator(products MigrationStore, departments DepartmentStore, store cache.Store, logger *slog.Logger, batchSize int) *Migrator {
	if batchSize < 1 {
		batchSize = DefaultMigrationBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		products:    products,
		departments: departments,
		cache:       store,
		logger:      logger,
		batchSize:   batchSize,
	}
}

// WithObserver registra un observador de lotes
func (m *Migrator) WithObserver(fn BatchObserver) *Migrator {
	m.observer = fn
	return m
}

// Run ejecuta las cuatro fases: descubrir, crear, asignar y verificar
func (m *Migrator) Run(ctx context.Context) (*models.MigrationResult, error) {
	start := time.Now()
	result := &models.MigrationResult{}

	legacy, err := m.products.DistinctLegacyDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover departments: %w", err)
	}
	m.logger.InfoContext(ctx, "🔍 legacy departments discovered", "values", len(legacy))

	byName := make(map[string]primitive.ObjectID)
	byLegacy := make(map[string]primitive.ObjectID)
	legacyNames := make([]string, 0, len(legacy))

	for _, raw := range legacy {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		id, ok := byName[name]
		if !ok {
			dept, created, err := m.ensureDepartment(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("ensure department %q: %w", name, err)
			}
			if created {
				result.DepartmentsCreated++
				m.logger.InfoContext(ctx, "✅ department created", "name", name, "id", dept.ID.Hex())
			} else {
				result.DepartmentsExisting++
			}
			id = dept.ID
			byName[name] = id
		}
		byLegacy[raw] = id
		legacyNames = append(legacyNames, raw)
	}
	result.DepartmentsFound = len(byName)

	if len(legacyNames) > 0 {
		if err := m.backfill(ctx, legacyNames, byLegacy, result); err != nil {
			return nil, err
		}
	}

	if result.ProductsWithDepartmentID, err = m.products.CountWithDepartmentID(ctx); err != nil {
		return nil, fmt.Errorf("verify migrated products: %w", err)
	}
	if result.ProductsWithoutDepartmentID, err = m.products.CountMissingDepartmentID(ctx); err != nil {
		return nil, fmt.Errorf("verify pending products: %w", err)
	}
	result.Complete = result.ProductsWithoutDepartmentID == 0

	if m.cache != nil {
		if err := m.cache.DeleteByPrefix(ctx, CacheKeyPrefix); err != nil {
			m.logger.WarnContext(ctx, "cache invalidation failed", "error", err)
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	m.logger.InfoContext(ctx, "🎉 department migration finished",
		"departments", result.DepartmentsFound,
		"created", result.DepartmentsCreated,
		"updated", result.ProductsUpdated,
		"pending", result.ProductsWithoutDepartmentID,
		"complete", result.Complete,
		"duration_ms", result.DurationMs)
	return result, nil
}

func (m *Migrator) backfill(ctx context.Context, legacyNames []string, byLegacy map[string]primitive.ObjectID, result *models.MigrationResult) error {
	after := primitive.NilObjectID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := m.products.FindUnassignedBatch(ctx, legacyNames, after, m.batchSize)
		if err != nil {
			return fmt.Errorf("read batch %d: %w", result.Batches+1, err)
		}
		if len(batch) == 0 {
			return nil
		}

		assignments := make([]models.DepartmentAssignment, 0, len(batch))
		for _, p := range batch {
			if id, ok := byLegacy[p.Department]; ok {
				assignments = append(assignments, models.DepartmentAssignment{ProductID: p.ObjectID, DepartmentID: id})
			}
		}

		updated, err := m.products.AssignDepartments(ctx, assignments)
		if err != nil {
			return fmt.Errorf("write batch %d: %w", result.Batches+1, err)
		}
		result.Batches++
		result.ProductsUpdated += updated
		after = batch[len(batch)-1].ObjectID

		m.logger.InfoContext(ctx, "📦 batch migrated", "batch", result.Batches, "updated", updated, "total", result.ProductsUpdated)
		if m.observer != nil {
			m.observer(result.Batches, updated)
		}

		if len(batch) < m.batchSize {
			return nil
		}
	}
}

// ensureDepartment busca o crea el departamento; si otro proceso lo creó primero, lo relee
func (m *Migrator) ensureDepartment(ctx context.Context, name string) (*models.Department, bool, error) {
	dept, err := m.departments.FindByName(ctx, name)
	if err == nil {
		return dept, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	dept = &models.Department{
		Name:        name,
		Slug:        slug.Make(name),
		Description: name + " department",
		IsActive:    true,
	}
	err = m.departments.Create(ctx, dept)
	if errors.Is(err, apperrors.ErrDuplicate) {
		dept, err = m.departments.FindByName(ctx, name)
		return dept, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return dept, true, nil
}
