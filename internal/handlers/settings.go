package handlers

import (
	"net/http"

	"reflow_oven/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingsRequest replaces the operator settings.
type SettingsRequest struct {
	// Display units: celsius or fahrenheit
	Units string `json:"units" binding:"required" example:"celsius"`
	// PID gains in tenths, 0..30000
	Kp int `json:"kp" example:"40"`
	Ki int `json:"ki" example:"10"`
	Kd int `json:"kd" example:"5"`
}

// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.services.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load settings", "settings_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Update settings
// @Description  New PID gains apply from the next regulator sample.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  SettingsRequest  true  "Settings"
// @Success      200  {object}  models.Settings
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [put]
// @Security     BearerAuth
func (h *Handler) updateSettings(c *gin.Context) {
	var req SettingsRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	s, err := h.services.Settings.UpdateSettings(c.Request.Context(), service.SettingsParams{
		Units: req.Units,
		Kp:    req.Kp,
		Ki:    req.Ki,
		Kd:    req.Kd,
	})
	if err != nil {
		h.respondServiceError(c, "failed to save settings", "settings_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}
