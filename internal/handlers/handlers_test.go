package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/jobs"
	"ecommerce-catalog/internal/middleware"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/service"
)

type stubCatalog struct {
	products   []models.Product
	total      int64
	lastFilter models.ProductFilter
	lastPage   service.PageRequest
	lastLimit  int
	lastStats  bool
	lastSort   models.DepartmentSort
	detail     *models.ProductDetail
	department *models.DepartmentDetail
	err        error
}

func (s *stubCatalog) ListProducts(_ context.Context, filter models.ProductFilter, page service.PageRequest) (*service.ProductPage, error) {
	s.lastFilter, s.lastPage = filter, page
	if s.err != nil {
		return nil, s.err
	}
	return &service.ProductPage{Products: s.products, Pagination: service.NewPagination(page, s.total)}, nil
}

func (s *stubCatalog) Categories(_ context.Context, limit int) ([]service.CategorySummary, error) {
	s.lastLimit = limit
	return []service.CategorySummary{{Category: "Jeans", Count: 2, AvgPrice: 54.99}}, s.err
}

func (s *stubCatalog) Brands(_ context.Context, limit int) ([]service.BrandSummary, error) {
	s.lastLimit = limit
	return []service.BrandSummary{{Brand: "Acme", Count: 2, AvgPrice: 10}}, s.err
}

func (s *stubCatalog) Product(_ context.Context, id string) (*models.ProductDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubCatalog) Departments(_ context.Context, includeStats bool, sort models.DepartmentSort) ([]models.DepartmentSummary, error) {
	s.lastStats, s.lastSort = includeStats, sort
	count := int64(3)
	return []models.DepartmentSummary{{Department: models.Department{Name: "Men"}, ProductCount: &count}}, s.err
}

func (s *stubCatalog) Department(_ context.Context, id string) (*models.DepartmentDetail, error) {
	if _, err := service.ParseDepartmentID(id); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.department, nil
}

func (s *stubCatalog) DepartmentProducts(_ context.Context, id string, page service.PageRequest) (*service.DepartmentProducts, error) {
	oid, err := service.ParseDepartmentID(id)
	if err != nil {
		return nil, err
	}
	s.lastPage = page
	return &service.DepartmentProducts{
		Department: models.Department{ID: oid, Name: "Women", Description: "Women department"},
		Products:   s.products,
		Pagination: service.NewPagination(page, s.total),
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(quietLogger(), false))
	return r
}

func serve(t *testing.T, r http.Handler, method, path string, body io.Reader) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func productRouter(catalog *stubCatalog) *gin.Engine {
	r := newTestRouter()
	h := NewProductHandler(catalog)
	r.GET("/api/products", h.ListProducts)
	r.GET("/api/products/categories", h.ListCategories)
	r.GET("/api/products/brands", h.ListBrands)
	r.GET("/api/products/:id", h.GetProduct)
	return r
}

func TestListProductsValidation(t *testing.T) {
	tests := []struct {
		query   string
		title   string
		message string
	}{
		{"page=0", "Invalid page parameter", "Page must be a positive integer (≥ 1)"},
		{"limit=0", "Invalid limit parameter", "Limit must be a positive integer (≥ 1)"},
		{"limit=101", "Invalid limit parameter", "Limit cannot exceed 100 items per page"},
		{"minPrice=-5", "Invalid minPrice parameter", "minPrice must be a positive number"},
		{"minPrice=50&maxPrice=10", "Invalid price range", "minPrice cannot be greater than maxPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			catalog := &stubCatalog{}
			status, body := serve(t, productRouter(catalog), http.MethodGet, "/api/products?"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.title, body["error"])
			assert.Equal(t, tt.message, body["message"])
			assert.Zero(t, catalog.lastPage.Page, "service must not be called")
		})
	}
}

func TestListProductsSuccess(t *testing.T) {
	catalog := &stubCatalog{
		products: []models.Product{{ID: "1", Name: "Slim Jeans", RetailPrice: 49.99}},
		total:    21,
	}
	status, body := serve(t, productRouter(catalog), http.MethodGet,
		"/api/products?page=2&limit=10&category=Jeans&department=Men&minPrice=10&search=slim", nil)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, 2.0, pagination["currentPage"])
	assert.Equal(t, 3.0, pagination["totalPages"])
	assert.Equal(t, 21.0, pagination["totalItems"])
	assert.Equal(t, true, pagination["hasNext"])
	assert.Equal(t, true, pagination["hasPrev"])

	assert.Equal(t, "Jeans", catalog.lastFilter.Category)
	assert.Equal(t, "Men", catalog.lastFilter.Department)
	require.NotNil(t, catalog.lastFilter.MinPrice)
	assert.Equal(t, 10.0, *catalog.lastFilter.MinPrice)
	assert.Nil(t, catalog.lastFilter.MaxPrice)

	filters := body["filters"].(map[string]any)
	assert.Nil(t, filters["maxPrice"])
}

func TestSummaries(t *testing.T) {
	catalog := &stubCatalog{}
	r := productRouter(catalog)

	status, body := serve(t, r, http.MethodGet, "/api/products/categories", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["total"])
	assert.Equal(t, 0, catalog.lastLimit)
	row := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Jeans", row["category"])
	assert.Equal(t, 54.99, row["avgPrice"])

	status, _ = serve(t, r, http.MethodGet, "/api/products/brands", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.DefaultBrandLimit, catalog.lastLimit)

	status, _ = serve(t, r, http.MethodGet, "/api/products/brands?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetProduct(t *testing.T) {
	pct := 149.95
	catalog := &stubCatalog{detail: &models.ProductDetail{
		Product:          models.Product{ID: "1", Name: "Slim Jeans", Cost: 20, RetailPrice: 49.99},
		ProfitMargin:     29.99,
		ProfitPercentage: &pct,
	}}

	status, body := serve(t, productRouter(catalog), http.MethodGet, "/api/products/1", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, 29.99, data["profitMargin"])
	assert.Equal(t, 149.95, data["profitPercentage"])
	assert.Equal(t, "Slim Jeans", data["name"])

	catalog.err = apperrors.NotFound("Product not found", "No product found with ID: 1")
	status, body = serve(t, productRouter(catalog), http.MethodGet, "/api/products/1", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No product found with ID: 1", body["message"])
}

func TestGetProductZeroCostSerializesNull(t *testing.T) {
	catalog := &stubCatalog{detail: &models.ProductDetail{
		Product:      models.Product{ID: "4", RetailPrice: 99},
		ProfitMargin: 99,
	}}

	status, body := serve(t, productRouter(catalog), http.MethodGet, "/api/products/4", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	value, present := data["profitPercentage"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func departmentRouter(catalog *stubCatalog) *gin.Engine {
	r := newTestRouter()
	h := NewDepartmentHandler(catalog)
	r.GET("/api/departments", h.ListDepartments)
	r.GET("/api/departments/:id", h.GetDepartment)
	r.GET("/api/departments/:id/products", h.GetDepartmentProducts)
	return r
}

func TestListDepartments(t *testing.T) {
	catalog := &stubCatalog{}
	r := departmentRouter(catalog)

	status, body := serve(t, r, http.MethodGet, "/api/departments?sort=-product_count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["total"])
	assert.True(t, catalog.lastStats)
	assert.Equal(t, models.SortByProductCountDesc, catalog.lastSort)
	first := body["departments"].([]any)[0].(map[string]any)
	assert.Equal(t, 3.0, first["product_count"])

	_, _ = serve(t, r, http.MethodGet, "/api/departments?includeStats=false", nil)
	assert.False(t, catalog.lastStats)

	status, _ = serve(t, r, http.MethodGet, "/api/departments?includeStats=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetDepartmentErrors(t *testing.T) {
	catalog := &stubCatalog{}
	r := departmentRouter(catalog)

	status, body := serve(t, r, http.MethodGet, "/api/departments/not-valid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid department ID", body["error"])

	id := primitive.NewObjectID().Hex()
	catalog.err = apperrors.NotFound("Department not found", fmt.Sprintf("Department with ID %s does not exist", id))
	status, body = serve(t, r, http.MethodGet, "/api/departments/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Department not found", body["error"])
}

func TestGetDepartmentDetail(t *testing.T) {
	dept := models.Department{ID: primitive.NewObjectID(), Name: "Men", Description: "Men department", IsActive: true}
	catalog := &stubCatalog{department: &models.DepartmentDetail{
		Department:      dept,
		DepartmentStats: models.DepartmentStats{ProductCount: 2, AvgPrice: 54.99, MinPrice: 49.99, MaxPrice: 59.99, TopBrands: []models.BrandCount{{Brand: "Levi's", Count: 2}}},
	}}

	status, body := serve(t, departmentRouter(catalog), http.MethodGet, "/api/departments/"+dept.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, dept.ID.Hex(), data["id"])
	assert.Equal(t, 2.0, data["productCount"])
	assert.Equal(t, 59.99, data["maxPrice"])
	assert.Len(t, data["topBrands"], 1)
}

func TestGetDepartmentProducts(t *testing.T) {
	catalog := &stubCatalog{products: []models.Product{{ID: "3", Name: "Tank Top"}}, total: 1}
	id := primitive.NewObjectID().Hex()

	status, body := serve(t, departmentRouter(catalog), http.MethodGet, "/api/departments/"+id+"/products?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Women", body["department"])
	info := body["departmentInfo"].(map[string]any)
	assert.Equal(t, id, info["id"])
	assert.Equal(t, "Women department", info["description"])
	assert.Len(t, body["products"], 1)
	assert.Equal(t, 5, catalog.lastPage.Limit)

	status, _ = serve(t, departmentRouter(catalog), http.MethodGet, "/api/departments/"+id+"/products?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

type stubRunner struct {
	result *models.MigrationResult
	err    error
}

func (s stubRunner) Run(context.Context) (*models.MigrationResult, error) { return s.result, s.err }

type stubQueue struct {
	payload jobs.MigrateDepartmentsPayload
}

func (q *stubQueue) EnqueueMigration(_ context.Context, p jobs.MigrateDepartmentsPayload) (string, error) {
	q.payload = p
	return "task-42", nil
}

func adminRouter(h *AdminHandler) *gin.Engine {
	r := newTestRouter()
	r.POST("/api/admin/migrate-departments", h.MigrateDepartments)
	return r
}

func TestMigrateDepartmentsSync(t *testing.T) {
	var gotBatch int
	h := NewAdminHandler(func(batch int) jobs.MigrationRunner {
		gotBatch = batch
		return stubRunner{result: &models.MigrationResult{DepartmentsFound: 3, ProductsUpdated: 7, Complete: true}}
	}, nil, nil)

	status, body := serve(t, adminRouter(h), http.MethodPost, "/api/admin/migrate-departments", strings.NewReader(`{"batchSize":500}`))
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, 3.0, data["departmentsFound"])
	assert.Equal(t, true, data["complete"])
	assert.Equal(t, 500, gotBatch)
}

func TestMigrateDepartmentsRejectsBadBatch(t *testing.T) {
	h := NewAdminHandler(func(int) jobs.MigrationRunner { return stubRunner{} }, nil, nil)

	status, _ := serve(t, adminRouter(h), http.MethodPost, "/api/admin/migrate-departments", strings.NewReader(`{"batchSize":0}`))
	assert.Equal(t, http.StatusOK, status, "omitempty accepts zero as default")

	status, body := serve(t, adminRouter(h), http.MethodPost, "/api/admin/migrate-departments", strings.NewReader(`{"batchSize":20000}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation Error", body["error"])
}

func TestMigrateDepartmentsRejectsMalformedJSON(t *testing.T) {
	ran := false
	h := NewAdminHandler(func(int) jobs.MigrationRunner {
		ran = true
		return stubRunner{}
	}, nil, nil)

	for _, raw := range []string{`{"batchSize":`, `{batchSize: 5}`, `{"batchSize":"many"}`} {
		status, body := serve(t, adminRouter(h), http.MethodPost, "/api/admin/migrate-departments", strings.NewReader(raw))
		assert.Equal(t, http.StatusBadRequest, status, raw)
		assert.Equal(t, "Invalid JSON", body["error"], raw)
		assert.Equal(t, "Request body contains invalid JSON", body["message"], raw)
		assert.NotEmpty(t, body["details"], raw)
	}
	assert.False(t, ran)
}

func TestMigrateDepartmentsFailure(t *testing.T) {
	h := NewAdminHandler(func(int) jobs.MigrationRunner {
		return stubRunner{err: errors.New("bulk write failed")}
	}, nil, nil)

	status, body := serve(t, adminRouter(h), http.MethodPost, "/api/admin/migrate-departments", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestMigrateDepartmentsAsync(t *testing.T) {
	queue := &stubQueue{}
	h := NewAdminHandler(func(int) jobs.MigrationRunner { return stubRunner{} }, queue, nil)

	status, body := serve(t, adminRouter(h), http.MethodPost, "/api/admin/migrate-departments?async=true", nil)
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "task-42", body["taskId"])
	assert.NotEmpty(t, queue.payload.RequestID)

	noQueue := NewAdminHandler(func(int) jobs.MigrationRunner { return stubRunner{} }, nil, nil)
	status, body = serve(t, adminRouter(noQueue), http.MethodPost, "/api/admin/migrate-departments?async=true", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Job queue unavailable", body["error"])
}

type stubPager[T any] struct {
	skip, limit int64
	items       []T
}

func (p *stubPager[T]) Page(_ context.Context, skip, limit int64) ([]T, int64, error) {
	p.skip, p.limit = skip, limit
	return p.items, int64(len(p.items)), nil
}

func TestReferenceListsClampLimit(t *testing.T) {
	users := &stubPager[models.User]{items: []models.User{{ID: "1", Email: "a@example.com"}}}
	orders := &stubPager[models.Order]{items: []models.Order{}}
	h := NewReferenceHandler(users, orders)

	r := newTestRouter()
	r.GET("/api/users", h.ListUsers)
	r.GET("/api/orders", h.ListOrders)

	status, body := serve(t, r, http.MethodGet, "/api/users?page=3&limit=80", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(50), users.limit)
	assert.Equal(t, int64(100), users.skip)
	assert.Len(t, body["data"], 1)

	status, body = serve(t, r, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(10), orders.limit)
	assert.NotNil(t, body["data"])
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	r := newTestRouter()
	up := NewHealthHandler(stubPinger{}, "1.0.0")
	down := NewHealthHandler(stubPinger{err: errors.New("no reachable servers")}, "1.0.0")
	r.GET("/", up.Root)
	r.GET("/health", up.Health)
	r.GET("/health-down", down.Health)

	status, body := serve(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Connected", body["database"])

	_, body = serve(t, r, http.MethodGet, "/health-down", nil)
	assert.Equal(t, "Disconnected", body["database"])

	_, body = serve(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, "E-commerce API is running!", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
}
