package router

import (
	"gold_billing_backend/internal/handlers"
	"gold_billing_backend/internal/middleware"
	"gold_billing_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Register and login are
// always public; /me requires a valid token regardless of AUTH_REQUIRED.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.GET("/me", middleware.AuthMiddleware(), authHandler.GetMe)
	}
}

// SetupProductRoutes sets up the product catalog routes.
func SetupProductRoutes(apiGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := apiGroup.Group("/products")
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PATCH("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupCustomerRoutes sets up the customer routes.
func SetupCustomerRoutes(apiGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := apiGroup.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:id", customerHandler.GetCustomerByID)
		customerRoutes.PATCH("/:id", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:id", customerHandler.DeleteCustomer)
	}
}

// SetupBillRoutes sets up the bill routes. Exchange bills share this surface
// and are distinguished by their payload.
func SetupBillRoutes(apiGroup *gin.RouterGroup, billHandler *handlers.BillingHandler) {
	billRoutes := apiGroup.Group("/bills")
	{
		billRoutes.POST("", billHandler.CreateDocument)
		billRoutes.GET("", billHandler.GetDocuments)
		billRoutes.GET("/:id", billHandler.GetDocumentByID)
		billRoutes.PATCH("/:id/payment", billHandler.UpdatePayment)
		billRoutes.DELETE("/:id", billHandler.DeleteDocument)
	}
}

// SetupInvoiceRoutes sets up the invoice routes. Invoices have no delete
// endpoint; they are the permanent record of a customer sale.
func SetupInvoiceRoutes(apiGroup *gin.RouterGroup, invoiceHandler *handlers.BillingHandler) {
	invoiceRoutes := apiGroup.Group("/invoices")
	{
		invoiceRoutes.POST("", invoiceHandler.CreateDocument)
		invoiceRoutes.GET("", invoiceHandler.GetDocuments)
		invoiceRoutes.GET("/:id", invoiceHandler.GetDocumentByID)
		invoiceRoutes.PATCH("/:id/payment", invoiceHandler.UpdatePayment)
	}
}

// SetupInventoryRoutes sets up the inventory view and audit trail routes.
func SetupInventoryRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := apiGroup.Group("/inventory")
	{
		inventoryRoutes.GET("", inventoryHandler.GetInventory)
		inventoryRoutes.GET("/transactions", inventoryHandler.GetStockTransactions)
	}
}

// SetupDashboardRoutes sets up the dashboard aggregation route.
func SetupDashboardRoutes(apiGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	apiGroup.GET("/dashboard", dashboardHandler.GetDashboard)
}

// SetupSettingsRoutes sets up the company settings routes. Writes are
// admin-only when authentication is enforced.
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler, authRequired bool) {
	settingsRoutes := apiGroup.Group("/settings")
	{
		settingsRoutes.GET("", settingHandler.GetSettings)
		settingsRoutes.GET("/:key", settingHandler.GetSettingByKey)
		if authRequired {
			settingsRoutes.PUT("", middleware.RoleAuthMiddleware(models.RoleAdmin), settingHandler.UpsertSetting)
		} else {
			settingsRoutes.PUT("", settingHandler.UpsertSetting)
		}
	}
}
