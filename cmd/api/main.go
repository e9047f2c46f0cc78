package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/config"
	"github.com/credfacil/backoffice-api/internal/infrastructure/database"
	"github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/internal/presentation/http/handler"
	"github.com/credfacil/backoffice-api/internal/presentation/http/routes"
	"github.com/credfacil/backoffice-api/pkg/cache"
	"github.com/credfacil/backoffice-api/pkg/email"
	"github.com/credfacil/backoffice-api/pkg/oauth"
	"github.com/credfacil/backoffice-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	serialRepo := repository.NewSerialUnitRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	creditRepo := repository.NewCreditApplicationRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleLineRepo := repository.NewSaleLineRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	registerRepo := repository.NewCashRegisterRepository(db)
	movementRepo := repository.NewCashMovementRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Lookup results are cached in Redis when available
	var lookupCache cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled {
		lookupCache = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	// Store notifications go out by email when SMTP is configured
	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.Email.Enabled {
		mailer := email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
			FrontendURL:  cfg.App.FrontendURL,
		})
		notifier = service.NewEmailNotifier(mailer)
	}

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	storeService := service.NewStoreService(storeRepo)
	productService := service.NewProductService(productRepo)
	stockService := service.NewStockService(stockRepo, serialRepo, productRepo, txManager, cfg.Stock.SerialDuplicatePolicy)
	customerService := service.NewCustomerService(customerRepo)
	installmentService := service.NewInstallmentService(installmentRepo, paymentRepo, saleRepo, storeRepo, notifier)
	saleService := service.NewSaleService(
		saleRepo, saleLineRepo, paymentRepo, methodRepo,
		stockRepo, serialRepo, customerRepo, productRepo,
		registerRepo, storeRepo, installmentService, txManager, notifier,
	)
	creditService := service.NewCreditService(creditRepo, customerRepo, productRepo, methodRepo, saleService)
	paymentService := service.NewPaymentService(paymentRepo, methodRepo, installmentService, txManager)
	settlementService := service.NewSettlementService(paymentRepo, installmentRepo, storeRepo, txManager)
	registerService := service.NewRegisterService(registerRepo, movementRepo, saleRepo, analyticsRepo)
	lookupService := service.NewLookupService(
		customerRepo, saleRepo, paymentRepo, installmentRepo,
		installmentService, settlementService, lookupCache,
	)
	dashboardService := service.NewDashboardService(analyticsRepo, storeRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		OAuth:       handler.NewOAuthHandler(authService, googleOAuthService),
		Store:       handler.NewStoreHandler(storeService),
		Product:     handler.NewProductHandler(productService),
		Stock:       handler.NewStockHandler(stockService),
		Customer:    handler.NewCustomerHandler(customerService),
		Credit:      handler.NewCreditHandler(creditService),
		Sale:        handler.NewSaleHandler(saleService),
		Payment:     handler.NewPaymentHandler(paymentService, settlementService),
		Installment: handler.NewInstallmentHandler(installmentService),
		Register:    handler.NewRegisterHandler(registerService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Lookup:      handler.NewLookupHandler(lookupService),
		User:        handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		StoreRepo:       storeRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
