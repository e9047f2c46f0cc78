package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/credfacil/backoffice-api/internal/config"
	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/internal/presentation/http/handler"
	"github.com/credfacil/backoffice-api/internal/presentation/http/middleware"
	"github.com/credfacil/backoffice-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	OAuth       *handler.OAuthHandler
	Store       *handler.StoreHandler
	Product     *handler.ProductHandler
	Stock       *handler.StockHandler
	Customer    *handler.CustomerHandler
	Credit      *handler.CreditHandler
	Sale        *handler.SaleHandler
	Payment     *handler.PaymentHandler
	Installment *handler.InstallmentHandler
	Register    *handler.RegisterHandler
	Dashboard   *handler.DashboardHandler
	Lookup      *handler.LookupHandler
	User        *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	StoreRepo       domainRepo.StoreRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
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

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)
		registerLookupRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-store rate limiter
		rateLimiter := middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.OAuth.GoogleAuth)
		auth.GET("/google/callback", h.OAuth.GoogleCallback)
	}
}

// registerLookupRoutes registers the public payment consultation
// endpoints. Customers identify themselves with CPF and birth date;
// no session or store header is involved.
func registerLookupRoutes(v1 *gin.RouterGroup, h *Handlers) {
	lookup := v1.Group("/lookup")
	{
		lookup.POST("", h.Lookup.Lookup)
		lookup.POST("/installments/report", h.Lookup.SelfReport)
		lookup.POST("/payments/report", h.Lookup.SelfReportAll)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Stores (membership management does not need the store header)
	registerStoreRoutes(protected, h, deps)

	// Store-scoped routes: everything below requires the X-Store-ID
	// header and an active membership (or super-admin)
	scoped := protected.Group("")
	scoped.Use(middleware.StoreMiddleware(deps.StoreRepo))

	// Dashboard
	scoped.GET("/dashboard", middleware.RequirePermission("view-dashboard"), h.Dashboard.GetStats)

	// Products
	registerProductRoutes(scoped, h)

	// Stock
	registerStockRoutes(scoped, h)

	// Customers
	registerCustomerRoutes(scoped, h)

	// Credit applications
	registerCreditRoutes(scoped, h)

	// Sales
	registerSaleRoutes(scoped, h, deps)

	// Payments and installments
	registerPaymentRoutes(scoped, h)

	// Cash registers
	registerRegisterRoutes(scoped, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)

	// Super Admin routes
	registerAdminRoutes(protected, h)
}

func registerStoreRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	stores := protected.Group("/stores")
	{
		stores.GET("", h.Store.ListMine)
		stores.POST("", h.Store.Create)
		stores.GET("/:id", h.Store.Get)
		stores.PUT("/:id", middleware.RequireStoreRole(deps.StoreRepo, "owner", "manager"), h.Store.Update)
		stores.GET("/:id/members", h.Store.GetMembers)
		stores.POST("/:id/members", middleware.RequireStoreRole(deps.StoreRepo, "owner", "manager"), h.Store.InviteMember)
		stores.PUT("/:id/members/:userId", middleware.RequireStoreRole(deps.StoreRepo, "owner"), h.Store.UpdateMemberRole)
		stores.DELETE("/:id/members/:userId", middleware.RequireStoreRole(deps.StoreRepo, "owner"), h.Store.RemoveMember)
	}
}

func registerProductRoutes(scoped *gin.RouterGroup, h *Handlers) {
	products := scoped.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/availability", h.Stock.GetAvailability)
	}
	manage := scoped.Group("/products")
	manage.Use(middleware.RequirePermission("manage-products"))
	{
		manage.POST("", h.Product.Create)
		manage.PUT("/:id", h.Product.Update)
		manage.DELETE("/:id", h.Product.Delete)
	}
}

func registerStockRoutes(scoped *gin.RouterGroup, h *Handlers) {
	stock := scoped.Group("/stock")
	stock.Use(middleware.RequirePermission("manage-stock"))
	{
		stock.GET("", h.Stock.ListStock)
		stock.POST("", h.Stock.AddStock)
		stock.GET("/serials", h.Stock.ListSerialUnits)
		stock.POST("/serials", h.Stock.RegisterSerials)
	}
}

func registerCustomerRoutes(scoped *gin.RouterGroup, h *Handlers) {
	customers := scoped.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerCreditRoutes(scoped *gin.RouterGroup, h *Handlers) {
	credit := scoped.Group("/credit-applications")
	{
		credit.GET("", h.Credit.List)
		credit.POST("", h.Credit.Apply)
		credit.GET("/:id", h.Credit.Get)
		credit.POST("/:id/review", middleware.RequirePermission("review-credit"), h.Credit.Review)
		credit.POST("/:id/convert", middleware.RequirePermission("manage-sales"), h.Credit.Convert)
	}
}

func registerSaleRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := scoped.Group("/sales")
	sales.Use(middleware.RequirePermission("manage-sales"))
	{
		sales.GET("", h.Sale.List)
		// Sale creation uses idempotency middleware to prevent duplicates
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.Update)
		sales.POST("/:id/cancel", h.Sale.Cancel)
		sales.POST("/:id/exchange", h.Sale.Exchange)
	}
}

func registerPaymentRoutes(scoped *gin.RouterGroup, h *Handlers) {
	payments := scoped.Group("/payments")
	payments.Use(middleware.RequirePermission("manage-payments"))
	{
		payments.GET("/methods", h.Payment.ListMethods)
		payments.POST("/methods", h.Payment.CreateMethod)
		payments.GET("/:id", h.Payment.Get)
		payments.PUT("/:id", h.Payment.Update)
		payments.PUT("/:id/blocked", h.Payment.SetBlocked)
		payments.GET("/:id/installments", h.Installment.ListByPayment)
		payments.GET("/:id/settlement", h.Payment.QuoteSettlement)
		payments.POST("/:id/settlement", middleware.RequirePermission("settle-payments"), h.Payment.Settle)
	}

	installments := scoped.Group("/installments")
	{
		installments.GET("/due", h.Installment.ListDue)
		installments.GET("/awaiting", h.Installment.ListAwaitingConfirmation)
		installments.GET("/:id", h.Installment.Get)
		installments.POST("/:id/confirm", middleware.RequirePermission("confirm-installments"), h.Installment.Confirm)
	}
}

func registerRegisterRoutes(scoped *gin.RouterGroup, h *Handlers) {
	registers := scoped.Group("/registers")
	registers.Use(middleware.RequirePermission("manage-registers"))
	{
		registers.GET("", h.Register.List)
		registers.POST("/open", h.Register.Open)
		registers.POST("/:id/close", h.Register.Close)
		registers.POST("/:id/movements", h.Register.AddMovement)
		registers.GET("/:id/summary", h.Register.Summary)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("super-admin"))
	{
		admin.GET("/stores", h.Store.ListAll)
		admin.POST("/stores/:id/assign-user", h.Store.AssignUser)
	}
}
