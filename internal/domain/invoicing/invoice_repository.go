package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/factura/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Invoice], error)
	// FindPendingReminders returns sent and overdue invoices of the tenant
	// whose due date is before the cutoff, oldest due date first.
	FindPendingReminders(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*Invoice, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
