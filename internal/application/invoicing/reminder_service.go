package invoicing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/factura/backend/internal/domain/identity"
	"github.com/factura/backend/internal/domain/invoicing"
	"github.com/factura/backend/internal/domain/partner"
)

// ReminderEmail is one payment reminder ready for delivery
type ReminderEmail struct {
	To            string
	ReplyTo       string
	TenantName    string
	ClientName    string
	InvoiceNumber string
	Total         decimal.Decimal
	Currency      string
	DueDate       time.Time
}

// EmailSender delivers reminder emails. Implementations live in
// infrastructure; the reminder run only depends on this port.
type EmailSender interface {
	SendReminder(ctx context.Context, email ReminderEmail) error
}

// ReminderRunStats summarizes one reminder run
type ReminderRunStats struct {
	TenantsProcessed int
	RemindersSent    int
	InvoicesOverdue  int
	Failures         int
}

// ReminderService sends payment reminders for unpaid invoices past their due
// date. One run walks every active tenant sequentially; a slow provider just
// stretches the run's wall-clock time.
type ReminderService struct {
	tenantRepo  identity.TenantRepository
	invoiceRepo invoicing.InvoiceRepository
	clientRepo  partner.ClientRepository
	sender      EmailSender
	logger      *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	tenantRepo identity.TenantRepository,
	invoiceRepo invoicing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	sender EmailSender,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		tenantRepo:  tenantRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		sender:      sender,
		logger:      logger,
	}
}

// SendDueReminders runs one reminder pass over all active tenants. Failures
// are logged and skipped; they never abort the rest of the run.
func (s *ReminderService) SendDueReminders(ctx context.Context, now time.Time) (*ReminderRunStats, error) {
	tenants, err := s.tenantRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ReminderRunStats{}
	for _, tenant := range tenants {
		if tenant.RemindersPaused {
			continue
		}
		stats.TenantsProcessed++
		s.processTenant(ctx, tenant, now, stats)
	}

	s.logger.Info("reminder run finished",
		zap.Int("tenants_processed", stats.TenantsProcessed),
		zap.Int("reminders_sent", stats.RemindersSent),
		zap.Int("invoices_overdue", stats.InvoicesOverdue),
		zap.Int("failures", stats.Failures))

	return stats, nil
}

func (s *ReminderService) processTenant(ctx context.Context, tenant *identity.Tenant, now time.Time, stats *ReminderRunStats) {
	invoices, err := s.invoiceRepo.FindPendingReminders(ctx, tenant.ID, now)
	if err != nil {
		stats.Failures++
		s.logger.Error("failed to load pending reminders",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return
	}

	for _, invoice := range invoices {
		sent, err := s.remind(ctx, tenant, invoice, now)
		if err != nil {
			stats.Failures++
			s.logger.Error("failed to send reminder",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("invoice_number", invoice.Number),
				zap.Error(err))
			continue
		}
		if !sent {
			continue
		}
		stats.RemindersSent++
		if invoice.Status == invoicing.InvoiceStatusOverdue {
			stats.InvoicesOverdue++
		}
	}
}

func (s *ReminderService) remind(ctx context.Context, tenant *identity.Tenant, invoice *invoicing.Invoice, now time.Time) (bool, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenant.ID, invoice.ClientID)
	if err != nil {
		return false, err
	}
	if client.Email == "" {
		s.logger.Debug("client has no email, reminder skipped",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("invoice_number", invoice.Number))
		return false, nil
	}

	// A sent invoice past its due date flips to overdue on the way out
	if invoice.Status == invoicing.InvoiceStatusSent && now.After(invoice.DueDate) {
		if err := invoice.MarkOverdue(now); err != nil {
			return false, err
		}
	}

	if err := s.sender.SendReminder(ctx, ReminderEmail{
		To:            client.Email,
		ReplyTo:       tenant.Email,
		TenantName:    tenant.Name,
		ClientName:    client.Name,
		InvoiceNumber: invoice.Number,
		Total:         invoice.Total,
		Currency:      invoice.Currency,
		DueDate:       invoice.DueDate,
	}); err != nil {
		return false, err
	}

	invoice.RecordReminder(now)
	return true, s.invoiceRepo.Save(ctx, invoice)
}
