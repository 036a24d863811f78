package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-catalog/internal/models"
)

var (
	missingDepartmentID = bson.M{"$exists": false}
	// departamento legado con al menos un carácter visible
	legacyDepartmentSet = bson.M{"$regex": `\S`}
)

// DistinctLegacyDepartments devuelve los valores distintos del campo department
func (r *ProductRepository) DistinctLegacyDepartments(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values, err := r.collection.Distinct(ctx, "department", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct department: %w", err)
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// FindUnassignedBatch lee el siguiente lote de productos sin department_id,
// paginando por _id a partir de after.
func (r *ProductRepository) FindUnassignedBatch(ctx context.Context, legacyNames []string, after primitive.ObjectID, limit int) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"department_id": missingDepartmentID,
		"department":    bson.M{"$in": legacyNames},
	}
	if !after.IsZero() {
		filter["_id"] = bson.M{"$gt": after}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1, "department": 1})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find unassigned products: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]models.Product, 0, limit)
	if err := cursor.All(ctx, &batch); err != nil {
		return nil, fmt.Errorf("decode unassigned products: %w", err)
	}
	return batch, nil
}

// AssignDepartments escribe department_id en un solo BulkWrite.
// Los productos que ya tienen department_id no se tocan.
func (r *ProductRepository) AssignDepartments(ctx context.Context, assignments []models.DepartmentAssignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(assignments))
	for _, a := range assignments {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": a.ProductID, "department_id": missingDepartmentID}).
			SetUpdate(bson.M{"$set": bson.M{"department_id": a.DepartmentID}}))
	}

	result, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk assign departments: %w", err)
	}
	return result.ModifiedCount, nil
}

// CountWithDepartmentID cuenta los productos ya migrados
func (r *ProductRepository) CountWithDepartmentID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{"department_id": bson.M{"$exists": true}})
}

// CountMissingDepartmentID cuenta los productos con departamento legado sin migrar
func (r *ProductRepository) CountMissingDepartmentID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{
		"department_id": missingDepartmentID,
		"department":    legacyDepartmentSet,
	})
}
