package handlers

import (
	"errors"
	"net/http"

	"reflow_oven/internal/oven"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/repository"
	"reflow_oven/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, oven.ErrBusy),
		errors.Is(err, oven.ErrTooHot),
		errors.Is(err, profile.ErrOverCapacity),
		errors.Is(err, service.ErrLastProfile),
		errors.Is(err, repository.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, oven.ErrOutOfRange),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, profile.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, profile.ErrBadIndex):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Client errors carry
// the error text; server errors are logged and replaced by userMsg.
func (h *Handler) respondServiceError(c *gin.Context, userMsg, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	if code < http.StatusInternalServerError {
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, code, userMsg, logKey, err, kv...)
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
