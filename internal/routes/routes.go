package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"ecommerce-catalog/internal/handlers"
	"ecommerce-catalog/internal/middleware"
	"ecommerce-catalog/internal/observability"
)

// Handlers reúne los handlers de la API
type Handlers struct {
	Products    *handlers.ProductHandler
	Departments *handlers.DepartmentHandler
	Admin       *handlers.AdminHandler
	Reference   *handlers.ReferenceHandler
	Health      *handlers.HealthHandler
}

// Options configura la cadena de middleware
type Options struct {
	Logger         *slog.Logger
	Production     bool
	CORSOrigin     string
	RequestTimeout time.Duration
	Metrics        *observability.Metrics
}

func RegisterRoutes(router *gin.Engine, h Handlers, opts Options) {
	router.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Recovery(opts.Logger, opts.Production),
		opts.Metrics.Middleware(),
		middleware.SecureHeaders(opts.Production),
		middleware.CORS(opts.CORSOrigin),
		middleware.ErrorHandler(opts.Logger, opts.Production),
	)

	router.GET("/", h.Health.Root)
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	api := router.Group("/api", middleware.Timeout(opts.RequestTimeout))
	{
		api.GET("/products", h.Products.ListProducts)
		api.GET("/products/categories", h.Products.ListCategories)
		api.GET("/products/brands", h.Products.ListBrands)
		api.GET("/products/:id", h.Products.GetProduct)

		api.GET("/departments", h.Departments.ListDepartments)
		api.GET("/departments/:id", h.Departments.GetDepartment)
		api.GET("/departments/:id/products", h.Departments.GetDepartmentProducts)

		api.GET("/users", h.Reference.ListUsers)
		api.GET("/orders", h.Reference.ListOrders)
	}

	// La migración no usa el timeout de lectura
	admin := router.Group("/api/admin")
	{
		admin.POST("/migrate-departments", h.Admin.MigrateDepartments)
	}

	router.NoRoute(middleware.NotFound())
}
