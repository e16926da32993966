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

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// CreateProduct handles the creation of a new catalog product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	created, err := h.productService.CreateProduct(product)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "CreateProduct: Error from productService.CreateProduct")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create product.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusCreated, created)
}

// GetProducts handles fetching products with search and filters.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}

	products, totalCount, err := h.productService.GetProducts(filters)
	if err != nil {
		utils.LogError(err, "GetProducts: Error from productService.GetProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", ""))
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.RespondWithList(c, products, totalCount)
}

// GetProductByID handles fetching a single product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid product ID format.")
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		utils.LogError(err, "GetProductByID: Error from productService.GetProductByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, product)
}

// UpdateProduct handles a partial product update.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid product ID format.")
		return
	}

	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, upd)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "UpdateProduct: Error from productService.UpdateProduct")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, product)
}

// DeleteProduct handles product deletion. Products referenced by billing
// documents are refused unless ?cascade=true is passed; the refusal carries
// the dependent-row counts.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid product ID format.")
		return
	}
	cascade := c.Query("cascade") == "true"

	err = h.productService.DeleteProduct(id, cascade)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		var refErr *services.ProductReferencedError
		if errors.As(err, &refErr) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
				refErr.Error(), "Pass cascade=true to delete anyway.").
				WithExtra(map[string]interface{}{"references": refErr.References}))
			return
		}
		utils.LogError(err, "DeleteProduct: Error from productService.DeleteProduct")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete product.", ""))
		return
	}
	utils.RespondWithMessage(c, "Product deleted successfully")
}
