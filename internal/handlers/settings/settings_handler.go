// internal/handlers/settings/settings_handler.go
package settings

import (
	"net/http"

	"shiftcare-service/internal/domain/settings"
	"shiftcare-service/internal/middleware"
	"shiftcare-service/internal/pkg/response"
	service "shiftcare-service/internal/service/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the account's preferences, defaults when never written.
func (h *SettingsHandler) Get(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	prefs, err := h.settingsService.Settings(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "settings retrieved", prefs)
}

// Update applies the provided preference fields.
func (h *SettingsHandler) Update(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req settings.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	prefs, err := h.settingsService.Update(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "settings updated", prefs)
}
