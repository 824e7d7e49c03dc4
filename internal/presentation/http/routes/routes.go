package routes

import (
	"log/slog"
	"time"

	"github.com/andesind/catalog-api/internal/config"
	domainRepo "github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/presentation/http/handler"
	"github.com/andesind/catalog-api/internal/presentation/http/middleware"
	"github.com/andesind/catalog-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Product   *handler.ProductHandler
	Public    *handler.PublicHandler
	Draft     *handler.DraftHandler
	Quotation *handler.QuotationHandler
	Contact   *handler.ContactHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *slog.Logger
}

// Setup creates the Gin router and registers all routes. The returned
// function stops the background work started for the router.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, func()) {
	router := gin.New()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.SecurityHeaders(deps.Cfg.App.Env == "production"))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration),
	)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerPublicRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Cfg.JWT.CookieName))
		protected.Use(rateLimiter.Middleware())
		registerProtectedRoutes(protected, h, deps, logger)
	}

	return router, rateLimiter.Close
}

func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}

	storefront := v1.Group("/public")
	{
		storefront.GET("/products", h.Public.ListProducts)
		storefront.GET("/products/:slug", h.Public.GetProduct)
		storefront.GET("/products/:slug/whatsapp", h.Public.WhatsAppLink)
		storefront.POST("/contacts", h.Public.SubmitContact)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, logger *slog.Logger) {
	protected.GET("/profile", h.Auth.GetProfile)
	protected.GET("/dashboard", h.Dashboard.GetStats)

	clients := protected.Group("/clients")
	{
		clients.POST("/lookup-tax-id", h.Client.LookupTaxID)
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.Client.Delete)
	}

	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)

		writes := products.Group("")
		writes.Use(middleware.RequireRole(enum.RoleAdmin))
		writes.POST("", h.Product.Create)
		writes.POST("/import", h.Product.Import)
		writes.PUT("/:id", h.Product.Update)
		writes.DELETE("/:id", h.Product.Delete)
	}

	protected.GET("/quotation-products/search", h.Draft.SearchProducts)
	protected.POST("/quotation-drafts/apply", h.Draft.Apply)

	quotations := protected.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			TTL:    idempotencyTTL(deps.Cfg),
			Logger: logger,
		}), h.Quotation.Create)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.PATCH("/:id/status", h.Quotation.UpdateStatus)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.GET("/:id/pdf", h.Quotation.PDF)
	}

	contacts := protected.Group("/contacts")
	{
		contacts.GET("", h.Contact.List)
		contacts.GET("/:id", h.Contact.Get)
		contacts.PATCH("/:id/status", h.Contact.UpdateStatus)
		contacts.DELETE("/:id", h.Contact.Delete)
	}
}

func idempotencyTTL(cfg *config.Config) time.Duration {
	if cfg.Quotation.IdempotencyTTL > 0 {
		return cfg.Quotation.IdempotencyTTL
	}
	return 24 * time.Hour
}
