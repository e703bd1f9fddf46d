package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// operatorIDKey holds the authenticated operator's id in the gin context.
const operatorIDKey = "operatorId"

const (
	errMissingToken  = "missing bearer token"
	errMalformedAuth = "malformed Authorization header, expected 'Bearer <token>'"
	errInvalidToken  = "invalid or expired token"
	bearerPrefix     = "Bearer "
)

// requireOperator rejects requests without a valid operator token. Every
// oven command sits behind it.
func (h *Handler) requireOperator(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		h.rejectUnauthorized(c, errMissingToken, "reason", "missing")
		return
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if token = strings.TrimSpace(token); !ok || token == "" {
		h.rejectUnauthorized(c, errMalformedAuth, "reason", "malformed")
		return
	}

	id, err := h.services.Authorization.ParseToken(token)
	if err != nil {
		h.rejectUnauthorized(c, errInvalidToken, "reason", "invalid", "err", err)
		return
	}
	c.Set(operatorIDKey, id)
	c.Next()
}

func (h *Handler) rejectUnauthorized(c *gin.Context, msg string, kv ...interface{}) {
	if h.log != nil {
		h.log.Debugw("operator_auth_rejected", append(kv, "path", c.FullPath())...)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// operatorID returns the id stored by requireOperator.
func operatorID(c *gin.Context) (int, bool) {
	v, ok := c.Get(operatorIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
