package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/config"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/presentation/http/handler"
	"github.com/pahanabooks/console-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Billing  *handler.BillingHandler
	Document *handler.DocumentHandler
	Book     *handler.BookHandler
	Order    *handler.OrderHandler
	Customer *handler.CustomerHandler
	Report   *handler.ReportHandler
	Event    *handler.EventHandler
	Blog     *handler.BlogHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Auth            middleware.Authenticator
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.SessionRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewSessionRateLimiter(
			middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration),
		)
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerPublicRoutes(public, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Auth))
		protected.Use(rateLimiter.Middleware())
		registerProtectedRoutes(protected, h)

		// Operator console
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(entity.RoleAdmin))
		registerAdminRoutes(admin, h, deps)
	}

	return router
}

func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/admin/login", h.Auth.AdminLogin)
		auth.POST("/customer/login", h.Auth.CustomerLogin)
		auth.POST("/customer/register", h.Auth.Register)
	}

	// Storefront catalog
	books := v1.Group("/books")
	{
		books.GET("", h.Book.List)
		books.GET("/categories", h.Book.Categories)
		books.GET("/:id", h.Book.Get)
	}

	blog := v1.Group("/blog")
	{
		blog.GET("", h.Blog.List)
		blog.GET("/popular", h.Blog.Popular)
		blog.GET("/tags", h.Blog.Tags)
		blog.GET("/related/:id", h.Blog.Related)
		blog.GET("/:id", h.Blog.Get)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.Profile)
	protected.GET("/events", h.Event.Stream)

	orders := protected.Group("/orders")
	{
		orders.POST("", h.Order.Place)
		orders.GET("/mine", h.Order.ListByEmail)
	}
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers, deps *Deps) {
	registerBillingRoutes(admin, h, deps)
	registerCatalogRoutes(admin, h)
	registerOrderRoutes(admin, h)
	registerCustomerRoutes(admin, h)
	registerReportRoutes(admin, h)

	admin.GET("/printer/status", h.Document.PrinterStatus)
}

func registerBillingRoutes(admin *gin.RouterGroup, h *Handlers, deps *Deps) {
	billing := admin.Group("/billing")
	{
		draft := billing.Group("/draft")
		{
			draft.GET("", h.Billing.Draft)
			draft.DELETE("", h.Billing.Reset)
			draft.PUT("/customer", h.Billing.ResolveCustomer)
			draft.POST("/items", h.Billing.AddItem)
			draft.DELETE("/items", h.Billing.ClearItems)
			draft.DELETE("/items/:id", h.Billing.RemoveItem)
			draft.PUT("/adjustments", h.Billing.SetAdjustments)
		}

		bills := billing.Group("/bills")
		{
			bills.GET("", h.Billing.List)
			bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Billing.Submit)
			bills.GET("/:number", h.Billing.Get)
			bills.POST("/:number/save", h.Billing.Save)
			bills.DELETE("/:number", h.Billing.Delete)
			bills.GET("/:number/preview", h.Document.Preview)
			bills.GET("/:number/document", h.Document.Download)
			bills.POST("/:number/print", h.Document.Print)
			bills.POST("/:number/email", h.Document.Email)
		}
	}
}

func registerCatalogRoutes(admin *gin.RouterGroup, h *Handlers) {
	books := admin.Group("/admin/books")
	{
		books.GET("/stats", h.Book.Stats)
		books.POST("", h.Book.Create)
		books.PUT("/:id", h.Book.Update)
		books.PATCH("/:id/stock", h.Book.UpdateStock)
		books.PATCH("/:id/archive", h.Book.Archive)
		books.DELETE("/:id", h.Book.Delete)
	}
}

func registerOrderRoutes(admin *gin.RouterGroup, h *Handlers) {
	orders := admin.Group("/admin/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/updates", h.Order.Updates)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id", h.Order.Update)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.DELETE("/:id", h.Order.Delete)
	}
}

func registerCustomerRoutes(admin *gin.RouterGroup, h *Handlers) {
	customers := admin.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/account/:account", h.Customer.GetByAccountNumber)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerReportRoutes(admin *gin.RouterGroup, h *Handlers) {
	reports := admin.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/summary/export", h.Report.Export)
	}

	analytics := admin.Group("/analytics")
	{
		analytics.GET("/dashboard", h.Report.Dashboard)
		analytics.GET("/reports", h.Report.Reports)
		analytics.GET("/export", h.Report.ExportAnalytics)
	}
}
