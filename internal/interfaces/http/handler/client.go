package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/factura/backend/internal/application/partner"
	"github.com/factura/backend/internal/interfaces/http/dto"
)

// ClientHandler handles client CRUD endpoints
type ClientHandler struct {
	BaseHandler
	clientService *apppartner.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *apppartner.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// RegisterRoutes registers client routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.POST("/:id/archive", h.Archive)
		clients.POST("/:id/restore", h.Restore)
		clients.DELETE("/:id", h.Delete)
	}
}

// Create creates a single client. Counts against the plan quota.
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apppartner.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	resp, err := h.clientService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the tenant's clients with pagination and filtering
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter apppartner.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	clients, total, err := h.clientService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// Get returns one client by ID
func (h *ClientHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	resp, err := h.clientService.GetByID(c.Request.Context(), tenantID, mustParseUUID(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a client
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req apppartner.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.Update(c.Request.Context(), tenantID, mustParseUUID(idReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive archives a client without deleting it
func (h *ClientHandler) Archive(c *gin.Context) {
	h.statusChange(c, h.clientService.Archive)
}

// Restore brings an archived client back to active
func (h *ClientHandler) Restore(c *gin.Context) {
	h.statusChange(c, h.clientService.Restore)
}

// Delete permanently removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	h.statusChange(c, h.clientService.Delete)
}
