package handlers

import (
	"net/http"

	"reflow_oven/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusStarted = "started"
	statusStopped = "stopped"

	errStartOven = "failed to start oven"
	errStopOven  = "failed to stop oven"
	errGetStatus = "failed to load status"
)

// Respond with a status and include the current oven status if available (best-effort).
func (h *Handler) respondWithStatus(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if id, ok := operatorID(c); ok && h.log != nil {
		h.log.Infow("oven_command", "result", status, "operator_id", id, "path", c.FullPath())
	}
	st, err := h.services.Monitoring.GetStatus(ctx)
	if err == nil {
		resp["oven"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// BakeRequest is the payload for starting a bake.
type BakeRequest struct {
	// Bake duration in seconds, 60..36000
	DurationSec int `json:"duration_s" binding:"required" example:"3600"`
	// Hold temperature in Celsius, 50..130
	TargetTempC float64 `json:"target_temp_c" binding:"required" example:"120"`
}

// ManualPowerRequest is the payload for manual power mode.
type ManualPowerRequest struct {
	// Heater power percentage, 0..100. 0 stops the oven.
	Level *int `json:"level" binding:"required" example:"60"`
}

// ManualTempRequest is the payload for manual temperature mode.
type ManualTempRequest struct {
	// Setpoint in Celsius, 5..270
	TargetTempC float64 `json:"target_temp_c" binding:"required" example:"150"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Start bake
// @Description  Holds target_temp_c for duration_s, then stops and opens the door.
// @Tags         oven
// @Accept       json
// @Produce      json
// @Param        body  body   BakeRequest  true  "Bake payload"
// @Success      200   {object}  map[string]interface{}  "status, oven"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "busy or too hot"
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/oven/bake [post]
// @Security     BearerAuth
func (h *Handler) startBake(c *gin.Context) {
	var req BakeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	err := h.services.Oven.StartBake(c.Request.Context(), service.BakeParams{
		DurationSec: req.DurationSec,
		TargetTempC: req.TargetTempC,
	})
	if err != nil {
		h.respondServiceError(c, errStartOven, "oven_bake_start_failed", err,
			"duration_s", req.DurationSec, "target_temp_c", req.TargetTempC)
		return
	}
	h.respondWithStatus(c, statusStarted, gin.H{"mode": "bake"})
}

// @Summary      Start reflow
// @Description  Runs the active profile. The oven must be below the profile start temperature.
// @Tags         oven
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, oven"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "busy or too hot"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/oven/reflow [post]
// @Security     BearerAuth
func (h *Handler) startReflow(c *gin.Context) {
	if err := h.services.Oven.StartReflow(c.Request.Context()); err != nil {
		h.respondServiceError(c, errStartOven, "oven_reflow_start_failed", err)
		return
	}
	h.respondWithStatus(c, statusStarted, gin.H{"mode": "reflow"})
}

// @Summary      Manual power
// @Description  Drives the heater at a fixed level until stopped. Level 0 stops the oven.
// @Tags         oven
// @Accept       json
// @Produce      json
// @Param        body  body   ManualPowerRequest  true  "Power payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/oven/manual/power [post]
// @Security     BearerAuth
func (h *Handler) startManualPower(c *gin.Context) {
	var req ManualPowerRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Oven.StartManualPower(c.Request.Context(), *req.Level); err != nil {
		h.respondServiceError(c, errStartOven, "oven_manual_power_failed", err, "level", *req.Level)
		return
	}
	h.respondWithStatus(c, statusStarted, gin.H{"mode": "manual_power"})
}

// @Summary      Manual temperature
// @Description  Holds a setpoint until stopped. May be called again to change the setpoint.
// @Tags         oven
// @Accept       json
// @Produce      json
// @Param        body  body   ManualTempRequest  true  "Setpoint payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/oven/manual/temp [post]
// @Security     BearerAuth
func (h *Handler) startManualTemp(c *gin.Context) {
	var req ManualTempRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Oven.StartManualTemp(c.Request.Context(), req.TargetTempC); err != nil {
		h.respondServiceError(c, errStartOven, "oven_manual_temp_failed", err, "target_temp_c", req.TargetTempC)
		return
	}
	h.respondWithStatus(c, statusStarted, gin.H{"mode": "manual_temp"})
}

// @Summary      Stop oven
// @Tags         oven
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/oven/stop [post]
// @Security     BearerAuth
func (h *Handler) stopOven(c *gin.Context) {
	if err := h.services.Oven.Stop(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errStopOven, "oven_stop_failed", err)
		return
	}
	h.respondWithStatus(c, statusStopped, gin.H{})
}

// @Summary      Get oven status
// @Tags         oven
// @Produce      json
// @Success      200  {object}  models.OvenStatus
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/oven/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "oven_get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
