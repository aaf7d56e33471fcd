package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/factura/backend/internal/domain/invoicing"
	"github.com/factura/backend/internal/domain/shared"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice together with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoice).Error; err != nil {
			return err
		}
		// Replace lines so removed ones do not linger
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&invoicing.InvoiceLine{}).Error; err != nil {
			return err
		}
		if len(invoice.Lines) == 0 {
			return nil
		}
		return tx.Create(&invoice.Lines).Error
	})
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant finds all invoices for a tenant matching the filter
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*invoicing.Invoice], error) {
	base := r.db.WithContext(ctx).Model(&invoicing.Invoice{}).Where("tenant_id = ?", tenantID)
	base = r.applyFieldFilters(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var invoices []*invoicing.Invoice
	if err := base.
		Preload("Lines").
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoices).Error; err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(invoices, total, page, pageSize)
	return &paginated, nil
}

// FindPendingReminders returns sent and overdue invoices of the tenant whose
// due date is before the cutoff, oldest due date first.
func (r *GormInvoiceRepository) FindPendingReminders(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*invoicing.Invoice, error) {
	var invoices []*invoicing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND status IN ? AND due_date < ?",
			tenantID,
			[]invoicing.InvoiceStatus{invoicing.InvoiceStatusSent, invoicing.InvoiceStatusOverdue},
			cutoff,
		).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Delete removes an invoice and its lines within a tenant
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&invoicing.Invoice{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&invoicing.InvoiceLine{}).Error
	})
}

// applyFieldFilters applies field filters to the query
func (r *GormInvoiceRepository) applyFieldFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
