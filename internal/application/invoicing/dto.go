package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/factura/backend/internal/domain/invoicing"
)

// InvoiceLineRequest represents one line on an invoice create request
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

// CreateInvoiceRequest represents a request to create a new draft invoice
type CreateInvoiceRequest struct {
	Number    string               `json:"number" binding:"required,min=1,max=50"`
	ClientID  uuid.UUID            `json:"client_id" binding:"required"`
	IssueDate time.Time            `json:"issue_date" binding:"required"`
	DueDate   time.Time            `json:"due_date" binding:"required"`
	Currency  string               `json:"currency" binding:"omitempty,len=3"`
	Lines     []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Notes     string               `json:"notes"`
	CreatedBy *uuid.UUID           `json:"-"`
}

// InvoiceListFilter represents filtering options for listing invoices
type InvoiceListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=number issue_date due_date total created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT SENT PAID OVERDUE"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}

// InvoiceLineResponse represents an invoice line in API responses
type InvoiceLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Net         decimal.Decimal `json:"net"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	Number         string                `json:"number"`
	ClientID       uuid.UUID             `json:"client_id"`
	Status         string                `json:"status"`
	Currency       string                `json:"currency"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	VATTotal       decimal.Decimal       `json:"vat_total"`
	Total          decimal.Decimal       `json:"total"`
	IssueDate      time.Time             `json:"issue_date"`
	DueDate        time.Time             `json:"due_date"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	LastReminderAt *time.Time            `json:"last_reminder_at,omitempty"`
	ReminderCount  int                   `json:"reminder_count"`
	Lines          []InvoiceLineResponse `json:"lines"`
	Notes          string                `json:"notes"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VATRate:     line.VATRate,
			Net:         line.Net(),
		}
	}

	return InvoiceResponse{
		ID:             inv.ID,
		TenantID:       inv.TenantID,
		Number:         inv.Number,
		ClientID:       inv.ClientID,
		Status:         inv.Status.String(),
		Currency:       inv.Currency,
		Subtotal:       inv.Subtotal,
		VATTotal:       inv.VATTotal,
		Total:          inv.Total,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		PaidAt:         inv.PaidAt,
		LastReminderAt: inv.LastReminderAt,
		ReminderCount:  inv.ReminderCount,
		Lines:          lines,
		Notes:          inv.Notes,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}
