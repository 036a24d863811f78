package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/models"
)

const (
	ProductsCollection            = "products"
	DepartmentsCollection         = "departments"
	UsersCollection               = "users"
	OrdersCollection              = "orders"
	OrderItemsCollection          = "order_items"
	InventoryItemsCollection      = "inventory_items"
	DistributionCentersCollection = "distribution_centers"
)

const (
	lookupTimeout = 3 * time.Second
	queryTimeout  = 10 * time.Second
	writeTimeout  = 30 * time.Second
)

// ErrInvalidWindow indica un skip o limit negativo
var ErrInvalidWindow = errors.New("invalid pagination window")

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(ProductsCollection),
	}
}

// Find lista productos con paginación y filtros
func (r *ProductRepository) Find(ctx context.Context, filter models.ProductFilter, opts models.FindOptions) ([]models.Product, error) {
	if opts.Skip < 0 || opts.Limit < 0 {
		return nil, fmt.Errorf("find products: %w: skip=%d limit=%d", ErrInvalidWindow, opts.Skip, opts.Limit)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "created_at"
	}
	order := opts.Order
	if order == 0 {
		order = models.Desc
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: sortField, Value: int(order)}, {Key: "_id", Value: 1}})
	if opts.Skip > 0 {
		findOptions.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}

	cursor, err := r.collection.Find(ctx, BuildProductFilter(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err = cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Count cuenta los productos que cumplen el filtro
func (r *ProductRepository) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, BuildProductFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// FindByNaturalID obtiene un producto por su id de negocio
func (r *ProductRepository) FindByNaturalID(ctx context.Context, id string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"id": id}, id)
}

// FindByObjectID obtiene un producto por _id
func (r *ProductRepository) FindByObjectID(ctx context.Context, oid primitive.ObjectID) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": oid}, oid.Hex())
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M, label string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var product models.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", label, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find product %s: %w", label, err)
	}
	return &product, nil
}

// GroupStats agrupa por un campo con conteo y precio promedio
func (r *ProductRepository) GroupStats(ctx context.Context, field string, limit int) ([]models.GroupStat, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, groupStatsPipeline(field, limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	stats := make([]models.GroupStat, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode %s stats: %w", field, err)
	}
	return stats, nil
}

// DepartmentStats calcula conteo, precios y marcas principales de un departamento
func (r *ProductRepository) DepartmentStats(ctx context.Context, scope models.DepartmentScope) (*models.DepartmentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, departmentStatsPipeline(scope))
	if err != nil {
		return nil, fmt.Errorf("aggregate department stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Stats     []models.DepartmentStats `bson:"stats"`
		TopBrands []models.BrandCount      `bson:"topBrands"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode department stats: %w", err)
	}

	stats := &models.DepartmentStats{TopBrands: []models.BrandCount{}}
	if len(rows) == 0 {
		return stats, nil
	}
	if len(rows[0].Stats) > 0 {
		*stats = rows[0].Stats[0]
	}
	stats.TopBrands = rows[0].TopBrands
	if stats.TopBrands == nil {
		stats.TopBrands = []models.BrandCount{}
	}
	return stats, nil
}
