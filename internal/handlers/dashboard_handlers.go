package handlers

import (
	"errors"
	"net/http"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/services"
	"gold_billing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler holds the dashboard service.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// GetDashboard handles the aggregated stats endpoint. The period parameter
// selects the bucket window for the sales chart.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var params models.DashboardParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, "Invalid query parameters: "+err.Error())
		return
	}

	stats, err := h.dashboardService.GetStats(params)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
			return
		}
		utils.LogError(err, "GetDashboard: Error from dashboardService.GetStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute dashboard stats.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, stats)
}
