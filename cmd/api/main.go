package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/config"
	"github.com/andesind/catalog-api/internal/infrastructure/cache"
	"github.com/andesind/catalog-api/internal/infrastructure/database"
	"github.com/andesind/catalog-api/internal/infrastructure/pdf"
	"github.com/andesind/catalog-api/internal/infrastructure/registry"
	"github.com/andesind/catalog-api/internal/infrastructure/repository"
	"github.com/andesind/catalog-api/internal/presentation/http/handler"
	"github.com/andesind/catalog-api/internal/presentation/http/routes"
	"github.com/andesind/catalog-api/internal/presentation/http/validation"
	"github.com/andesind/catalog-api/pkg/logger"
	"github.com/andesind/catalog-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.App.LogFormat, cfg.App.Debug)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.Register(); err != nil {
		log.Error("register validators", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.SeedAdmin(db, &cfg.Admin); err != nil {
		log.Warn("seed admin user", slog.Any("error", err))
	}

	// Catalog cache is optional; without Redis every read goes to the database
	var catalogCache *cache.Catalog
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Warn("redis close", slog.Any("error", err))
				}
			}()
			catalogCache = cache.NewCatalog(redisClient, cfg.Redis.CacheTTL)
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	contactRepo := repository.NewContactRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
		log.Warn("purge expired idempotency keys", slog.Any("error", err))
	}

	registryClient := registry.NewClient(registry.Config{
		BaseURL: cfg.Registry.BaseURL,
		Token:   cfg.Registry.Token,
		Timeout: cfg.Registry.Timeout,
	})
	pdfGenerator := pdf.NewGenerator(pdf.Issuer{
		Name:    cfg.Company.Name,
		TaxID:   cfg.Company.TaxID,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	clientService := service.NewClientService(clientRepo, registryClient, log)
	productService := service.NewProductService(productRepo, catalogCache, log)
	draftService := service.NewDraftService(productRepo)
	quotationService := service.NewQuotationService(quotationRepo, clientRepo, productRepo, pdfGenerator, service.QuotationSettings{
		ValidityDays: cfg.Quotation.ValidityDays,
		TaxRate:      cfg.Quotation.TaxRate,
		NumberPrefix: cfg.Quotation.NumberPrefix,
		DefaultTerms: cfg.Quotation.DefaultTerms,
	}, log)
	contactService := service.NewContactService(contactRepo, productRepo, cfg.Company.WhatsAppPhone, log)
	dashboardService := service.NewDashboardService(productRepo, clientRepo, contactRepo, quotationRepo)

	handlers := &routes.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.SessionCookie{
			Name:   cfg.JWT.CookieName,
			Secure: cfg.JWT.CookieSecure,
		}),
		Client:    handler.NewClientHandler(clientService),
		Product:   handler.NewProductHandler(productService),
		Public:    handler.NewPublicHandler(productService, contactService),
		Draft:     handler.NewDraftHandler(draftService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Contact:   handler.NewContactHandler(contactService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	router, closeRouter := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
	})
	defer closeRouter()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Info("starting http server", slog.String("service", cfg.App.Name), slog.String("addr", server.Addr), slog.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", slog.Any("error", err))
	}
}
