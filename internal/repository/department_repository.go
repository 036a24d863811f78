package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/models"
)

type DepartmentRepository struct {
	collection *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{
		collection: db.Collection(DepartmentsCollection),
	}
}

// FindByName busca un departamento por nombre exacto
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	return r.findOne(ctx, bson.M{"name": strings.TrimSpace(name)}, name)
}

// FindByID busca un departamento por _id
func (r *DepartmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id.Hex())
}

func (r *DepartmentRepository) findOne(ctx context.Context, filter bson.M, label string) (*models.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var dept models.Department
	if err := r.collection.FindOne(ctx, filter).Decode(&dept); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("department %s: %w", label, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find department %s: %w", label, err)
	}
	return &dept, nil
}

// Create inserta un departamento nuevo
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	now := time.Now().UTC()
	dept.ID = primitive.NewObjectID()
	dept.Name = strings.TrimSpace(dept.Name)
	dept.CreatedAt = now
	dept.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, dept); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Duplicate(fmt.Sprintf("Department %q already exists", dept.Name))
		}
		return fmt.Errorf("insert department %q: %w", dept.Name, err)
	}
	return nil
}

// FindIDsByNameMatch devuelve los _id de los departamentos cuyo nombre contiene term
func (r *DepartmentRepository) FindIDsByNameMatch(ctx context.Context, term string) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx,
		bson.M{"name": containsRegex(term)},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("match departments: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode department ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// ListWithStats lista los departamentos, con conteo y precio promedio si se piden
func (r *DepartmentRepository) ListWithStats(ctx context.Context, includeStats bool, sort models.DepartmentSort) ([]models.DepartmentSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		cursor *mongo.Cursor
		err    error
	)
	if includeStats {
		cursor, err = r.collection.Aggregate(ctx, departmentListPipeline(sort))
	} else {
		// Sin estadísticas no hay product_count por el que ordenar
		if sort != models.SortByNameDesc {
			sort = models.SortByName
		}
		cursor, err = r.collection.Find(ctx, bson.M{}, options.Find().SetSort(departmentSortStage(sort)))
	}
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer cursor.Close(ctx)

	departments := make([]models.DepartmentSummary, 0)
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, fmt.Errorf("decode departments: %w", err)
	}
	return departments, nil
}
