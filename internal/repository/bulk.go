package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// BulkWriter inserta lotes de documentos de carga masiva
type BulkWriter struct {
	db *mongo.Database
}

func NewBulkWriter(db *mongo.Database) *BulkWriter {
	return &BulkWriter{db: db}
}

// InsertMany inserta sin orden; los duplicados se cuentan y no detienen el lote
func (w *BulkWriter) InsertMany(ctx context.Context, collection string, docs []any) (inserted, duplicates int, err error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err = w.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(docs), 0, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil {
		return 0, 0, fmt.Errorf("insert %s: %w", collection, err)
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return 0, 0, fmt.Errorf("insert %s: %w", collection, err)
		}
		duplicates++
	}
	return len(docs) - duplicates, duplicates, nil
}

// Clear vacía una colección antes de recargarla
func (w *BulkWriter) Clear(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := w.db.Collection(collection).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", collection, err)
	}
	return result.DeletedCount, nil
}
