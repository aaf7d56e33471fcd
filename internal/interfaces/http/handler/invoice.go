package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinvoicing "github.com/factura/backend/internal/application/invoicing"
	"github.com/factura/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appinvoicing.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appinvoicing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("/:id/send", h.Send)
		invoices.POST("/:id/pay", h.MarkPaid)
		invoices.DELETE("/:id", h.Delete)
	}
}

// Create creates a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appinvoicing.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the tenant's invoices with pagination and filtering
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appinvoicing.InvoiceListFilter
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

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Get returns one invoice with its lines
func (h *InvoiceHandler) Get(c *gin.Context) {
	h.withInvoiceID(c, func(tenantID, invoiceID uuid.UUID) (any, error) {
		return h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	})
}

// Send marks a draft invoice as sent
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.withInvoiceID(c, func(tenantID, invoiceID uuid.UUID) (any, error) {
		return h.invoiceService.Send(c.Request.Context(), tenantID, invoiceID)
	})
}

// MarkPaid marks a sent or overdue invoice as paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.withInvoiceID(c, func(tenantID, invoiceID uuid.UUID) (any, error) {
		return h.invoiceService.MarkPaid(c.Request.Context(), tenantID, invoiceID)
	})
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	h.statusChange(c, h.invoiceService.Delete)
}

// withInvoiceID runs an invoice operation for the path-parameter ID
func (h *InvoiceHandler) withInvoiceID(c *gin.Context, op func(tenantID, invoiceID uuid.UUID) (any, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := op(tenantID, mustParseUUID(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
