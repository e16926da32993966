package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/services"
	"gold_billing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BillingHandler serves both bill and invoice routes; the two share request
// shapes and differ only in the service wired behind them and the noun used
// in messages.
type BillingHandler struct {
	billingService services.BillingService
	docLabel       string // "Bill" or "Invoice"
}

// NewBillHandler creates the handler for /api/bills.
func NewBillHandler(bs services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs, docLabel: "Bill"}
}

// NewInvoiceHandler creates the handler for /api/invoices.
func NewInvoiceHandler(bs services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs, docLabel: "Invoice"}
}

// CreateDocument handles the transactional creation of a bill or invoice
// including stock deduction.
func (h *BillingHandler) CreateDocument(c *gin.Context) {
	var req services.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	doc, err := h.billingService.CreateDocument(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrTotalsMismatch):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error(), ""))
		case errors.Is(err, services.ErrInsufficientStock):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
		default:
			utils.LogError(err, "CreateDocument: Error from billingService.CreateDocument")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create "+h.docLabel+".", ""))
		}
		return
	}
	utils.RespondWithData(c, http.StatusCreated, doc)
}

// GetDocuments handles listing bills or invoices with filters.
func (h *BillingHandler) GetDocuments(c *gin.Context) {
	var filters models.DocumentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}

	docs, totalCount, err := h.billingService.GetDocuments(filters)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "GetDocuments: Error from billingService.GetDocuments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch "+h.docLabel+"s.", ""))
		return
	}
	if docs == nil {
		docs = []models.BillingDocument{}
	}
	utils.RespondWithList(c, docs, totalCount)
}

// GetDocumentByID handles fetching a single document with its items.
func (h *BillingHandler) GetDocumentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid "+h.docLabel+" ID format.")
		return
	}

	doc, err := h.billingService.GetDocumentByID(id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, h.docLabel+" not found.", ""))
			return
		}
		utils.LogError(err, "GetDocumentByID: Error from billingService.GetDocumentByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch "+h.docLabel+".", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, doc)
}

// UpdatePayment handles a partial payment update on a document.
func (h *BillingHandler) UpdatePayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid "+h.docLabel+" ID format.")
		return
	}

	var req services.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	doc, err := h.billingService.UpdatePayment(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, h.docLabel+" not found.", ""))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		default:
			utils.LogError(err, "UpdatePayment: Error from billingService.UpdatePayment")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update payment.", ""))
		}
		return
	}
	utils.RespondWithData(c, http.StatusOK, doc)
}

// DeleteDocument handles document deletion; bills return their deducted
// stock with audit rows.
func (h *BillingHandler) DeleteDocument(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid "+h.docLabel+" ID format.")
		return
	}

	if err := h.billingService.DeleteDocument(id); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, h.docLabel+" not found.", ""))
			return
		}
		utils.LogError(err, "DeleteDocument: Error from billingService.DeleteDocument")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete "+h.docLabel+".", ""))
		return
	}
	utils.RespondWithMessage(c, h.docLabel+" deleted successfully")
}
