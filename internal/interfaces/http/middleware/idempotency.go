package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/factura/backend/internal/domain/shared"
	"github.com/factura/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen key for deduplicating
// retried requests
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency returns a middleware rejecting requests whose Idempotency-Key
// was already processed within the configured TTL. Requests without the
// header are let through; the key is scoped per tenant so tenants cannot
// collide with each other.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if !cfg.Enabled || store == nil {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := GetJWTTenantID(c) + ":" + key
		marked, err := store.MarkProcessed(c.Request.Context(), scopedKey, cfg.TTL)
		if err != nil {
			// Fail open: a broken store must not block uploads
			logger.Error("idempotency check failed", zap.Error(err))
			c.Next()
			return
		}
		if !marked {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeDuplicateRequest,
				"This request was already processed",
			))
			return
		}

		c.Next()
	}
}
