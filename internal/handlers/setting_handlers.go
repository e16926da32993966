package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler serves the key/value company settings. Settings are plain
// rows with no business rules, so the handler talks to the repository
// directly.
type SettingHandler struct {
	settingsRepo repositories.SettingsRepository
	db           *sql.DB
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(sr repositories.SettingsRepository, db *sql.DB) *SettingHandler {
	return &SettingHandler{settingsRepo: sr, db: db}
}

// GetSettings retrieves all settings ordered by key.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsRepo.GetSettings()
	if err != nil {
		utils.LogError(err, "GetSettings: Error from settingsRepo.GetSettings")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch settings.", ""))
		return
	}
	if settings == nil {
		settings = []models.Setting{}
	}
	utils.RespondWithList(c, settings, len(settings))
}

// GetSettingByKey retrieves a single setting.
func (h *SettingHandler) GetSettingByKey(c *gin.Context) {
	key := c.Param("key")
	setting, err := h.settingsRepo.GetSettingByKey(key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Setting not found.", ""))
			return
		}
		utils.LogError(err, "GetSettingByKey: Error from settingsRepo.GetSettingByKey")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch setting.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, setting)
}

// UpsertSetting creates or overwrites a setting by key.
func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	var setting models.Setting
	if err := c.ShouldBindJSON(&setting); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.settingsRepo.UpsertSetting(h.db, &setting); err != nil {
		utils.LogError(err, "UpsertSetting: Error from settingsRepo.UpsertSetting")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save setting.", ""))
		return
	}
	utils.RespondWithData(c, http.StatusOK, setting)
}
