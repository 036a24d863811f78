package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Collection es un listado paginado de solo lectura para las colecciones de referencia
type Collection[T any] struct {
	collection *mongo.Collection
	sortField  string
}

func NewCollection[T any](db *mongo.Database, name, sortField string) *Collection[T] {
	return &Collection[T]{
		collection: db.Collection(name),
		sortField:  sortField,
	}
}

// Page devuelve una página y el total de documentos
func (c *Collection[T]) Page(ctx context.Context, skip, limit int64) ([]T, int64, error) {
	if skip < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("page %s: %w: skip=%d limit=%d", c.collection.Name(), ErrInvalidWindow, skip, limit)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		items = make([]T, 0)
		total int64
	)

	// Contar total en paralelo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.collection.CountDocuments(gctx, bson.M{})
		if err != nil {
			return fmt.Errorf("count %s: %w", c.collection.Name(), err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		findOptions := options.Find().
			SetSort(bson.D{{Key: c.sortField, Value: -1}, {Key: "_id", Value: 1}}).
			SetSkip(skip).
			SetLimit(limit)

		cursor, err := c.collection.Find(gctx, bson.M{}, findOptions)
		if err != nil {
			return fmt.Errorf("find %s: %w", c.collection.Name(), err)
		}
		defer cursor.Close(gctx)
		return cursor.All(gctx, &items)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
