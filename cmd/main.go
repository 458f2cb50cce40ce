package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"quotabill/internal/analytics"
	"quotabill/internal/caching"
	"quotabill/internal/config"
	"quotabill/internal/handlers"
	"quotabill/internal/jobs"
	"quotabill/internal/jobs/background"
	"quotabill/internal/middleware"
	"quotabill/internal/repositories"
	"quotabill/internal/services"
	"quotabill/pkg/database"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32)
		log.Println("WARNING: JWT_SECRET not set, using a random secret. Tokens will not survive a restart.")
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheService := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	logoService, err := services.NewLogoService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := logoService.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure logo bucket exists: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	quotationRepo := repositories.NewQuotationRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	clientRepo := repositories.NewClientRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	bankRepo := repositories.NewBankAccountRepo(pool)

	// Services
	quotationService := services.NewQuotationService(quotationRepo, cacheService)
	invoiceService := services.NewInvoiceService(invoiceRepo, quotationRepo)
	clientService := services.NewClientService(clientRepo)
	companyService := services.NewCompanyService(companyRepo)
	bankService := services.NewBankAccountService(bankRepo)
	statsService := analytics.NewService(quotationRepo, invoiceRepo, cacheService)

	// Background jobs
	statsRefresh := jobs.NewStatsRefreshService(statsService, userRepo)
	scheduler := background.NewJobScheduler(statsRefresh, cacheService)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("WARN: job scheduler shutdown: %v", err)
		}
	}()

	// Handlers
	quotationHandlers := handlers.NewQuotationHandlers(quotationService)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceService)
	clientHandlers := handlers.NewClientHandlers(clientService)
	companyHandlers := handlers.NewCompanyHandlers(companyService)
	bankHandlers := handlers.NewBankAccountHandlers(bankService)
	uploadHandlers := handlers.NewUploadHandlers(logoService)
	statsHandlers := handlers.NewStatsHandlers(statsService)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheService)

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.VersionHeader("v1"))

	// Health endpoints stay unauthenticated for load balancer probes.
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))
	api.Use(middleware.UserContext(userRepo))

	// Draft auto-save gets its own rate limit since editors fire it on a
	// debounce timer.
	draftLimit := middleware.RateLimit(cacheService, 30, time.Minute)

	// Quotations
	api.POST("/quotations/draft", quotationHandlers.SaveDraft, draftLimit)
	api.GET("/quotations/draft", quotationHandlers.ListDrafts)
	api.GET("/quotations/draft/:id", quotationHandlers.LoadDraft)
	api.DELETE("/quotations/draft/:id", quotationHandlers.DeleteDraft)
	api.GET("/quotations", quotationHandlers.List)
	api.GET("/quotations/next-number", quotationHandlers.NextNumber)
	api.GET("/quotations/:id", quotationHandlers.Get)
	api.PUT("/quotations/:id/status", quotationHandlers.UpdateStatus)
	api.GET("/quotations/:id/invoices", invoiceHandlers.ListForQuotation)
	api.DELETE("/quotations/:id", quotationHandlers.Delete)

	// Invoices
	api.POST("/invoices", invoiceHandlers.Create)
	api.GET("/invoices", invoiceHandlers.List)
	api.GET("/invoices/:id", invoiceHandlers.Get)
	api.PUT("/invoices/:id", invoiceHandlers.Update)
	api.PUT("/invoices/:id/status", invoiceHandlers.UpdateStatus)
	api.POST("/invoices/:id/payment", invoiceHandlers.MarkPaid)
	api.DELETE("/invoices/:id", invoiceHandlers.Delete)
	api.POST("/invoices/from-quotation", invoiceHandlers.CreateFromQuotation)

	// Clients
	api.POST("/clients", clientHandlers.Create)
	api.GET("/clients", clientHandlers.List)
	api.GET("/clients/:id", clientHandlers.Get)
	api.PUT("/clients/:id", clientHandlers.Update)
	api.DELETE("/clients/:id", clientHandlers.Delete)

	// Companies
	api.POST("/companies", companyHandlers.Create)
	api.GET("/companies", companyHandlers.List)
	api.GET("/companies/default", companyHandlers.GetDefault)
	api.GET("/companies/:id", companyHandlers.Get)
	api.PUT("/companies/:id", companyHandlers.Update)
	api.POST("/companies/:id/default", companyHandlers.SetDefault)
	api.DELETE("/companies/:id", companyHandlers.Delete)

	// Bank accounts
	api.POST("/bank-accounts", bankHandlers.Create)
	api.GET("/bank-accounts", bankHandlers.List)
	api.GET("/bank-accounts/:id", bankHandlers.Get)
	api.PUT("/bank-accounts/:id", bankHandlers.Update)
	api.POST("/bank-accounts/:id/default", bankHandlers.SetDefault)
	api.DELETE("/bank-accounts/:id", bankHandlers.Delete)

	// Uploads
	api.POST("/upload/logo", uploadHandlers.UploadLogo)
	api.GET("/upload/logo-url", uploadHandlers.GetLogoURL)

	// Stats
	api.GET("/stats", statsHandlers.GetStats)
	api.POST("/stats/refresh", statsHandlers.RefreshStats)

	log.Printf("Starting quotabill server on port %d", cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
