package loader

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"ecommerce-catalog/internal/repository"
)

// Kind identifica el tipo de registro y su colección destino
type Kind string

const (
	KindProducts            Kind = "products"
	KindUsers               Kind = "users"
	KindOrders              Kind = "orders"
	KindOrderItems          Kind = "order_items"
	KindInventoryItems      Kind = "inventory_items"
	KindDistributionCenters Kind = "distribution_centers"
)

const (
	DefaultBatchSize = 1000
	// Cuántos rechazos se registran en el log por carga
	reportedRejects = 5
)

var collections = map[Kind]string{
	KindProducts:            repository.ProductsCollection,
	KindUsers:               repository.UsersCollection,
	KindOrders:              repository.OrdersCollection,
	KindOrderItems:          repository.OrderItemsCollection,
	KindInventoryItems:      repository.InventoryItemsCollection,
	KindDistributionCenters: repository.DistributionCentersCollection,
}

// Kinds devuelve los tipos soportados en orden alfabético
func Kinds() []string {
	kinds := make([]string, 0, len(collections))
	for k := range collections {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)
	return kinds
}

// ParseKind valida el nombre de un tipo de carga
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := collections[k]; !ok {
		return "", fmt.Errorf("unknown kind %q (valid: %v)", s, Kinds())
	}
	return k, nil
}

// Writer persiste lotes de documentos; repository.BulkWriter lo implementa
type Writer interface {
	InsertMany(ctx context.Context, collection string, docs []any) (inserted, duplicates int, err error)
	Clear(ctx context.Context, collection string) (int64, error)
}

// Report resume una carga
type Report struct {
	Kind       Kind   `json:"kind"`
	Collection string `json:"collection"`
	Rows       int    `json:"rows"`
	Invalid    int    `json:"invalid"`
	Duplicates int    `json:"duplicates"`
	Cleared    int64  `json:"cleared"`
	Inserted   int    `json:"inserted"`
	// Rechazados por la base por clave duplicada
	Existing int `json:"existing"`
	Batches  int `json:"batches"`
}

type Loader struct {
	writer    Writer
	logger    *slog.Logger
	batchSize int
	now       func() time.Time
}

func New(writer Writer, logger *slog.Logger, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Loader{writer: writer, logger: logger, batchSize: batchSize, now: time.Now}
}

// Load lee path, valida y deduplica los registros e inserta en lotes.
// Con replace la colección se vacía antes de insertar.
func (l *Loader) Load(ctx context.Context, kind Kind, path string, replace bool) (*Report, error) {
	collection, ok := collections[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	l.logger.Info("📄 file read", "kind", kind, "path", path, "rows", len(rows))

	report := &Report{Kind: kind, Collection: collection, Rows: len(rows)}
	docs := l.prepare(kind, rows, report)

	if replace {
		cleared, err := l.writer.Clear(ctx, collection)
		if err != nil {
			return report, err
		}
		report.Cleared = cleared
		l.logger.Info("🗑️ collection cleared", "collection", collection, "deleted", cleared)
	}

	total := (len(docs) + l.batchSize - 1) / l.batchSize
	for start := 0; start < len(docs); start += l.batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := min(start+l.batchSize, len(docs))
		inserted, existing, err := l.writer.InsertMany(ctx, collection, docs[start:end])
		if err != nil {
			return report, fmt.Errorf("batch %d/%d: %w", report.Batches+1, total, err)
		}
		report.Batches++
		report.Inserted += inserted
		report.Existing += existing
		l.logger.Info(fmt.Sprintf("📦 Inserted batch %d/%d", report.Batches, total),
			"collection", collection, "inserted", inserted, "existing", existing)
	}

	l.logger.Info("✅ load finished", "collection", collection,
		"inserted", report.Inserted, "invalid", report.Invalid, "duplicates", report.Duplicates)
	return report, nil
}

// prepare construye los documentos, descartando inválidos y claves repetidas
func (l *Loader) prepare(kind Kind, rows []row, report *Report) []any {
	build := builders[kind]
	now := l.now().UTC()
	seen := make(map[string]struct{}, len(rows))
	docs := make([]any, 0, len(rows))

	for i, r := range rows {
		rec, err := build(r, now)
		if err != nil {
			report.Invalid++
			if report.Invalid <= reportedRejects {
				l.logger.Warn("⚠️ invalid row skipped", "line", i+2, "error", err)
			}
			continue
		}

		dup := ""
		for _, key := range rec.keys {
			if _, ok := seen[key]; ok {
				dup = key
				break
			}
		}
		if dup != "" {
			report.Duplicates++
			if report.Duplicates <= reportedRejects {
				l.logger.Warn("⚠️ duplicate row skipped", "line", i+2, "key", dup)
			}
			continue
		}
		for _, key := range rec.keys {
			seen[key] = struct{}{}
		}
		docs = append(docs, rec.doc)
	}
	return docs
}
