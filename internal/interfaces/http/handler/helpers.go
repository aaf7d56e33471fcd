package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/factura/backend/internal/interfaces/http/dto"
)

// mustParseUUID parses an ID already validated by binding:"uuid"
func mustParseUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// statusChange runs a tenant-scoped (tenantID, id) -> error operation for a
// path-parameter ID and answers 204
func (h *BaseHandler) statusChange(c *gin.Context, op func(ctx context.Context, tenantID, id uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid ID")
		return
	}

	if err := op(c.Request.Context(), tenantID, mustParseUUID(idReq.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
