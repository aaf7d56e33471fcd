package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/factura/backend/internal/domain/shared"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"   // Editable, not yet delivered
	InvoiceStatusSent    InvoiceStatus = "SENT"    // Delivered to the client, awaiting payment
	InvoiceStatusPaid    InvoiceStatus = "PAID"    // Fully paid
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE" // Sent and past its due date
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid
}

// NeedsReminder returns true if invoices in this status qualify for payment reminders
func (s InvoiceStatus) NeedsReminder() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// InvoiceLine represents a single billable line on an invoice
type InvoiceLine struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `json:"invoice_id" gorm:"type:uuid;not null;index"`
	Description string          `json:"description" gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(12,3);not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	VATRate     decimal.Decimal `json:"vat_rate" gorm:"type:decimal(5,2);not null"` // Percentage, e.g. 19
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Net returns quantity * unit price for the line
func (l InvoiceLine) Net() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// VAT returns the VAT amount for the line
func (l InvoiceLine) VAT() decimal.Decimal {
	return l.Net().Mul(l.VATRate).Div(decimal.NewFromInt(100))
}

// Invoice represents an invoice issued by a tenant to one of its clients
type Invoice struct {
	shared.TenantAggregateRoot
	Number         string          `json:"number" gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_tenant_number,composite:tenant_id"`
	ClientID       uuid.UUID       `json:"client_id" gorm:"type:uuid;not null;index"`
	Status         InvoiceStatus   `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Currency       string          `json:"currency" gorm:"type:varchar(3);not null;default:'RON'"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	VATTotal       decimal.Decimal `json:"vat_total" gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	IssueDate      time.Time       `json:"issue_date" gorm:"not null"`
	DueDate        time.Time       `json:"due_date" gorm:"not null;index"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	LastReminderAt *time.Time      `json:"last_reminder_at,omitempty"` // Last time a payment reminder went out
	ReminderCount  int             `json:"reminder_count" gorm:"not null;default:0"`
	Lines          []InvoiceLine   `json:"lines" gorm:"foreignKey:InvoiceID"`
	Notes          string          `json:"notes" gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(tenantID uuid.UUID, number string, clientID uuid.UUID, issueDate, dueDate time.Time) (*Invoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Invoice must reference a client")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		ClientID:            clientID,
		Status:              InvoiceStatusDraft,
		Currency:            "RON",
		Subtotal:            decimal.Zero,
		VATTotal:            decimal.Zero,
		Total:               decimal.Zero,
		IssueDate:           issueDate,
		DueDate:             dueDate,
	}, nil
}

// AddLine appends a billable line to a draft invoice and recalculates totals
func (i *Invoice) AddLine(description string, quantity, unitPrice, vatRate decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVOICE_NOT_DRAFT", "Only draft invoices can be modified")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_LINE", "Unit price cannot be negative")
	}

	i.Lines = append(i.Lines, InvoiceLine{
		ID:          uuid.New(),
		InvoiceID:   i.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		VATRate:     vatRate,
	})
	i.recalculate()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	for _, line := range i.Lines {
		subtotal = subtotal.Add(line.Net())
		vatTotal = vatTotal.Add(line.VAT())
	}
	i.Subtotal = subtotal.Round(2)
	i.VATTotal = vatTotal.Round(2)
	i.Total = i.Subtotal.Add(i.VATTotal)
}

// MarkSent transitions a draft invoice to sent
func (i *Invoice) MarkSent() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", "Only draft invoices can be sent")
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot send an invoice with no lines")
	}

	i.Status = InvoiceStatusSent
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkPaid transitions a sent or overdue invoice to paid
func (i *Invoice) MarkPaid(paidAt time.Time) error {
	if !i.Status.NeedsReminder() {
		return shared.NewDomainError("INVALID_TRANSITION", "Only sent or overdue invoices can be paid")
	}

	i.Status = InvoiceStatusPaid
	i.PaidAt = &paidAt
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkOverdue flags a sent invoice whose due date has passed
func (i *Invoice) MarkOverdue(now time.Time) error {
	if i.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_TRANSITION", "Only sent invoices can become overdue")
	}
	if !now.After(i.DueDate) {
		return shared.NewDomainError("NOT_DUE", "Invoice is not past its due date")
	}

	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// RecordReminder bumps the reminder bookkeeping after a reminder email went out
func (i *Invoice) RecordReminder(sentAt time.Time) {
	i.LastReminderAt = &sentAt
	i.ReminderCount++
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsPastDue returns true if the invoice is unpaid and past its due date
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.Status.NeedsReminder() && now.After(i.DueDate)
}
