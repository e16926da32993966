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

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// CreateCustomer handles the creation of a new customer.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	created, err := h.customerService.CreateCustomer(customer)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "CreateCustomer: Error from customerService.CreateCustomer")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create customer.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusCreated, created)
}

// GetCustomers handles fetching customers with search and type filters.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var filters models.CustomerFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}

	customers, totalCount, err := h.customerService.GetCustomers(filters)
	if err != nil {
		utils.LogError(err, "GetCustomers: Error from customerService.GetCustomers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch customers.", ""))
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	utils.RespondWithList(c, customers, totalCount)
}

// GetCustomerByID handles fetching a single customer.
func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid customer ID format.")
		return
	}

	customer, err := h.customerService.GetCustomerByID(id)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", ""))
			return
		}
		utils.LogError(err, "GetCustomerByID: Error from customerService.GetCustomerByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch customer.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, customer)
}

// UpdateCustomer handles a partial customer update.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid customer ID format.")
		return
	}

	var upd models.CustomerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(id, upd)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", ""))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "UpdateCustomer: Error from customerService.UpdateCustomer")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update customer.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, customer)
}

// DeleteCustomer handles customer deletion. Customers referenced by invoices
// are refused; the refusal carries the invoice count.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid customer ID format.")
		return
	}

	err = h.customerService.DeleteCustomer(id)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", ""))
			return
		}
		var refErr *services.CustomerReferencedError
		if errors.As(err, &refErr) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
				refErr.Error(), "").
				WithExtra(map[string]interface{}{"invoice_count": refErr.Invoices}))
			return
		}
		utils.LogError(err, "DeleteCustomer: Error from customerService.DeleteCustomer")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete customer.", ""))
		return
	}
	utils.RespondWithMessage(c, "Customer deleted successfully")
}
