package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/factura/backend/internal/infrastructure/auth"
	"github.com/factura/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles token lifecycle endpoints
type AuthHandler struct {
	BaseHandler
	revocationList auth.TokenRevocationList
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(revocationList auth.TokenRevocationList, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		revocationList: revocationList,
		logger:         logger,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
}

// Logout revokes the current access token. The revocation entry lives only
// until the token would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.ID == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl > 0 && h.revocationList != nil {
		if err := h.revocationList.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
			h.logger.Error("failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
			h.InternalError(c, "Failed to revoke token")
			return
		}
	}

	h.NoContent(c)
}
