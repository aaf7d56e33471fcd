package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/factura/backend/internal/domain/invoicing"
	"github.com/factura/backend/internal/domain/partner"
	"github.com/factura/backend/internal/domain/shared"
)

// InvoiceService handles invoice-related business operations
type InvoiceService struct {
	invoiceRepo invoicing.InvoiceRepository
	clientRepo  partner.ClientRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo invoicing.InvoiceRepository, clientRepo partner.ClientRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new draft invoice with its lines
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	// The client must exist and belong to the tenant
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot invoice an archived client")
	}

	invoice, err := invoicing.NewInvoice(tenantID, req.Number, req.ClientID, req.IssueDate, req.DueDate)
	if err != nil {
		return nil, err
	}
	invoice.CreatedBy = req.CreatedBy
	if req.Currency != "" {
		invoice.Currency = req.Currency
	}
	if req.Notes != "" {
		invoice.Notes = req.Notes
	}

	for _, line := range req.Lines {
		if err := invoice.AddLine(line.Description, line.Quantity, line.UnitPrice, line.VATRate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "issue_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}

	page, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(page.Items))
	for i, invoice := range page.Items {
		responses[i] = ToInvoiceResponse(invoice)
	}

	return responses, page.Total, nil
}

// Send marks a draft invoice as sent
func (s *InvoiceService) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkSent(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid records payment of a sent or overdue invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(time.Now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != invoicing.InvoiceStatusDraft {
		return shared.NewDomainError("INVOICE_NOT_DRAFT", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, tenantID, invoiceID)
}
