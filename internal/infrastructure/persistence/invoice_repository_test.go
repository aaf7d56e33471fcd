package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/factura/backend/internal/domain/invoicing"
	"github.com/factura/backend/internal/domain/shared"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&invoicing.Invoice{}, &invoicing.InvoiceLine{}))
	return db
}

func newTestInvoice(t *testing.T, tenantID uuid.UUID, number string, due time.Time) *invoicing.Invoice {
	invoice, err := invoicing.NewInvoice(tenantID, number, uuid.New(), due.AddDate(0, 0, -14), due)
	require.NoError(t, err)
	require.NoError(t, invoice.AddLine("Consulting", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(19)))
	return invoice
}

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	invoice := newTestInvoice(t, tenantID, "FAC-2026-001", time.Now().AddDate(0, 0, 14))
	require.NoError(t, repo.Save(ctx, invoice))

	found, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-2026-001", found.Number)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Consulting", found.Lines[0].Description)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(1190)))

	t.Run("not found for wrong tenant", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), invoice.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_SaveReplacesLines(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	invoice := newTestInvoice(t, tenantID, "FAC-2026-002", time.Now().AddDate(0, 0, 14))
	require.NoError(t, repo.Save(ctx, invoice))

	require.NoError(t, invoice.AddLine("Hosting", decimal.NewFromInt(1), decimal.NewFromInt(50), decimal.NewFromInt(19)))
	require.NoError(t, repo.Save(ctx, invoice))

	found, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, found.Lines, 2)
}

func TestGormInvoiceRepository_FindAllForTenant(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	due := time.Now().AddDate(0, 0, 14)
	first := newTestInvoice(t, tenantID, "FAC-2026-001", due)
	second := newTestInvoice(t, tenantID, "FAC-2026-002", due)
	require.NoError(t, second.MarkSent())
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, newTestInvoice(t, uuid.New(), "FAC-2026-003", due)))

	t.Run("scoped and paginated", func(t *testing.T) {
		result, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, 1, result.Page)
	})

	t.Run("status filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(invoicing.InvoiceStatusSent)
		result, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "FAC-2026-002", result.Items[0].Number)
	})

	t.Run("search by number", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "001"
		result, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "FAC-2026-001", result.Items[0].Number)
	})
}

func TestGormInvoiceRepository_FindPendingReminders(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now()

	// Sent and past due: eligible
	pastDue := newTestInvoice(t, tenantID, "FAC-001", now.AddDate(0, 0, -5))
	require.NoError(t, pastDue.MarkSent())

	// Overdue and even older: eligible, should come first
	older := newTestInvoice(t, tenantID, "FAC-002", now.AddDate(0, 0, -10))
	require.NoError(t, older.MarkSent())
	require.NoError(t, older.MarkOverdue(now))

	// Draft past due: not eligible
	draft := newTestInvoice(t, tenantID, "FAC-003", now.AddDate(0, 0, -3))

	// Sent but not yet due: not eligible
	future := newTestInvoice(t, tenantID, "FAC-004", now.AddDate(0, 0, 7))
	require.NoError(t, future.MarkSent())

	// Paid past due: not eligible
	paid := newTestInvoice(t, tenantID, "FAC-005", now.AddDate(0, 0, -2))
	require.NoError(t, paid.MarkSent())
	require.NoError(t, paid.MarkPaid(now))

	for _, inv := range []*invoicing.Invoice{pastDue, older, draft, future, paid} {
		require.NoError(t, repo.Save(ctx, inv))
	}

	pending, err := repo.FindPendingReminders(ctx, tenantID, now)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "FAC-002", pending[0].Number, "oldest due date first")
	assert.Equal(t, "FAC-001", pending[1].Number)
	assert.NotEmpty(t, pending[0].Lines, "lines are preloaded for reminder emails")
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	invoice := newTestInvoice(t, tenantID, "FAC-2026-001", time.Now().AddDate(0, 0, 14))
	require.NoError(t, repo.Save(ctx, invoice))

	t.Run("wrong tenant cannot delete", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New(), invoice.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	require.NoError(t, repo.Delete(ctx, tenantID, invoice.ID))

	_, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&invoicing.InvoiceLine{}).Where("invoice_id = ?", invoice.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount, "lines are deleted with the invoice")
}
