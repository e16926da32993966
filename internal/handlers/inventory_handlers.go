package handlers

import (
	"net/http"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/internal/services"
	"gold_billing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler serves the stock views: the inventory listing with stock
// status labels and the append-only stock transaction audit trail. The audit
// listing talks to the repository directly; there is no business logic to
// put between them.
type InventoryHandler struct {
	productService services.ProductService
	stockRepo      repositories.StockTransactionRepository
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(ps services.ProductService, sr repositories.StockTransactionRepository) *InventoryHandler {
	return &InventoryHandler{productService: ps, stockRepo: sr}
}

// GetInventory handles the inventory listing: every product with a derived
// stock status label.
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}

	items, totalCount, err := h.productService.GetInventory(filters)
	if err != nil {
		utils.LogError(err, "GetInventory: Error from productService.GetInventory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory.", ""))
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	utils.RespondWithList(c, items, totalCount)
}

// GetStockTransactions handles listing the stock audit trail, newest first.
func (h *InventoryHandler) GetStockTransactions(c *gin.Context) {
	var filters models.StockTransactionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filters.Direction != nil && *filters.Direction != models.StockDirectionIn && *filters.Direction != models.StockDirectionOut {
		utils.RespondValidationFailed(c, "direction must be 'in' or 'out'")
		return
	}

	transactions, totalCount, err := h.stockRepo.GetTransactions(filters)
	if err != nil {
		utils.LogError(err, "GetStockTransactions: Error from stockRepo.GetTransactions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock transactions.", ""))
		return
	}
	if transactions == nil {
		transactions = []models.StockTransaction{}
	}
	utils.RespondWithList(c, transactions, totalCount)
}
