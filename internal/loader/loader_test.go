package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecommerce-catalog/internal/models"
)

type fakeWriter struct {
	batches  [][]any
	cleared  []string
	existing int
	err      error
}

func (w *fakeWriter) InsertMany(_ context.Context, _ string, docs []any) (int, int, error) {
	if w.err != nil {
		return 0, 0, w.err
	}
	w.batches = append(w.batches, docs)
	existing := min(w.existing, len(docs))
	return len(docs) - existing, existing, nil
}

func (w *fakeWriter) Clear(_ context.Context, collection string) (int64, error) {
	w.cleared = append(w.cleared, collection)
	return 42, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const productsCSV = `id,cost,category,name,brand,retail_price,department,sku,distribution_center_id
1,10.5,Jeans,Slim Jean,Levi's,30,Men,SKU1,1
2,5,Tops,Tee,Gap,12,Women,SKU2,2
1,5,Tops,Dup,Gap,12,Women,SKU3,2
4,5,Tops,,Gap,12,Women,SKU4,2
5,5,Tops,Other,Gap,12,Women,SKU2,2
6,abc,Tops,Bad cost,Gap,12,Women,SKU6,2

7,3,Tops,Cap,Gap,8,Women,SKU7,2
`

func TestLoadProductsCSV(t *testing.T) {
	w := &fakeWriter{}
	l := New(w, quietLogger(), 2)
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	report, err := l.Load(context.Background(), KindProducts, writeFile(t, "products.csv", productsCSV), false)
	require.NoError(t, err)

	assert.Equal(t, 7, report.Rows)
	assert.Equal(t, 2, report.Invalid)
	assert.Equal(t, 2, report.Duplicates)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 2, report.Batches)
	assert.Equal(t, "products", report.Collection)
	assert.Empty(t, w.cleared)

	require.Len(t, w.batches, 2)
	require.Len(t, w.batches[0], 2)
	first := w.batches[0][0].(models.Product)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Levi's", first.Brand)
	assert.InDelta(t, 10.5, first.Cost, 0.0001)
	assert.Equal(t, "Men", first.Department)
	assert.Nil(t, first.DepartmentID)
	assert.Equal(t, fixed, first.CreatedAt)
	assert.Equal(t, "7", w.batches[1][0].(models.Product).ID)
}

func TestLoadReplaceClearsFirst(t *testing.T) {
	w := &fakeWriter{existing: 1}
	l := New(w, quietLogger(), 0)

	report, err := l.Load(context.Background(), KindProducts, writeFile(t, "p.csv", productsCSV), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"products"}, w.cleared)
	assert.Equal(t, int64(42), report.Cleared)
	assert.Equal(t, 1, report.Batches)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Existing)
}

func TestLoadUsersXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"ID", "First_Name", "Last_Name", "Email", "Age", "Gender", "Traffic_Source", "Created_At"},
		{"10", "Ana", "Ruiz", "ana@example.com", "34", "F", "Search", "2023-01-05 10:00:00 UTC"},
		{"11", "Luis", "Paz", "not-an-email", "20", "M", "Email", ""},
		{"10", "Ana", "Ruiz", "ana2@example.com", "34", "F", "Search", ""},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "users.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	w := &fakeWriter{}
	report, err := New(w, quietLogger(), 0).Load(context.Background(), KindUsers, path, false)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 1, report.Invalid)
	assert.Equal(t, 1, report.Duplicates)
	require.Len(t, w.batches, 1)
	user := w.batches[0][0].(models.User)
	assert.Equal(t, "Ana", user.FirstName)
	require.NotNil(t, user.Age)
	assert.Equal(t, 34, *user.Age)
	assert.Equal(t, time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC), user.CreatedAt)
}

func TestLoadOrdersRejectsInconsistentDates(t *testing.T) {
	csv := `order_id,user_id,status,created_at,shipped_at,num_of_item
1,7,Shipped,2023-02-01,2023-02-03,2
2,7,Shipped,2023-02-05,2023-02-01,1
3,8,Lost,2023-02-05,,1
`
	w := &fakeWriter{}
	report, err := New(w, quietLogger(), 0).Load(context.Background(), KindOrders, writeFile(t, "orders.csv", csv), false)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Invalid)
	assert.Equal(t, 1, report.Inserted)
	order := w.batches[0][0].(models.Order)
	require.NotNil(t, order.ShippedAt)
	assert.Equal(t, 2, order.NumOfItem)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(&fakeWriter{}, quietLogger(), 0).Load(ctx, KindUsers, writeFile(t, "users.json", "[]"), false)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(&fakeWriter{}, quietLogger(), 0).Load(ctx, KindUsers, writeFile(t, "empty.csv", ""), false)
	assert.Error(t, err)

	boom := errors.New("connection reset")
	_, err = New(&fakeWriter{err: boom}, quietLogger(), 0).Load(ctx, KindProducts, writeFile(t, "p.csv", productsCSV), false)
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeWriter{}, quietLogger(), 0).Load(ctx, Kind("widgets"), "x.csv", false)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("order_items")
	require.NoError(t, err)
	assert.Equal(t, KindOrderItems, k)

	_, err = ParseKind("widgets")
	assert.ErrorContains(t, err, "distribution_centers")
	assert.Len(t, Kinds(), 6)
}
