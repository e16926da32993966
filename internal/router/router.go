package router

import (
	"database/sql"

	"gold_billing_backend/internal/config"
	"gold_billing_backend/internal/handlers"
	"gold_billing_backend/internal/middleware"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers onto the engine.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config) {
	// Initialize Repositories
	productRepo := repositories.NewProductRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	billRepo := repositories.NewBillRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	stockRepo := repositories.NewStockTransactionRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Initialize Services
	productService := services.NewProductService(productRepo, db)
	customerService := services.NewCustomerService(customerRepo, invoiceRepo, db)
	billService := services.NewBillService(billRepo, productRepo, stockRepo, db)
	invoiceService := services.NewInvoiceService(invoiceRepo, productRepo, stockRepo, db)
	dashboardService := services.NewDashboardService(dashboardRepo)
	authService := services.NewAuthService(userRepo, db)

	// Initialize Handlers
	productHandler := handlers.NewProductHandler(productService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	billHandler := handlers.NewBillHandler(billService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	inventoryHandler := handlers.NewInventoryHandler(productService, stockRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	settingHandler := handlers.NewSettingHandler(settingsRepo, db)
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()

	engine.GET("/health", healthHandler.GetHealth)

	api := engine.Group("/api")

	SetupAuthRoutes(api, authHandler)

	// The billing terminal runs open by default; AUTH_REQUIRED=true puts the
	// whole API behind the JWT middleware.
	protected := api.Group("")
	if cfg.Auth.Required {
		protected.Use(middleware.AuthMiddleware())
	}
	{
		SetupProductRoutes(protected, productHandler)
		SetupCustomerRoutes(protected, customerHandler)
		SetupBillRoutes(protected, billHandler)
		SetupInvoiceRoutes(protected, invoiceHandler)
		SetupInventoryRoutes(protected, inventoryHandler)
		SetupDashboardRoutes(protected, dashboardHandler)
		SetupSettingsRoutes(protected, settingHandler, cfg.Auth.Required)
	}
}
