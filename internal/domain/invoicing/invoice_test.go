package invoicing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := NewInvoice(uuid.New(), "FACT-2025-0001", uuid.New(), issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice", func(t *testing.T) {
		inv := newTestInvoice(t)

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, "FACT-2025-0001", inv.Number)
		assert.True(t, inv.Total.IsZero())
		assert.Equal(t, 0, inv.ReminderCount)
		assert.Nil(t, inv.LastReminderAt)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "  ", uuid.New(), time.Now(), time.Now().AddDate(0, 0, 30))
		assert.Error(t, err)
	})

	t.Run("rejects nil client", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "FACT-1", uuid.Nil, time.Now(), time.Now().AddDate(0, 0, 30))
		assert.Error(t, err)
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		now := time.Now()
		_, err := NewInvoice(uuid.New(), "FACT-1", uuid.New(), now, now.AddDate(0, 0, -1))
		assert.Error(t, err)
	})
}

func TestInvoice_AddLine(t *testing.T) {
	t.Run("recalculates totals with VAT", func(t *testing.T) {
		inv := newTestInvoice(t)

		err := inv.AddLine("Consulting", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(19))
		require.NoError(t, err)
		err = inv.AddLine("Hosting", decimal.NewFromInt(1), decimal.NewFromFloat(49.99), decimal.NewFromInt(19))
		require.NoError(t, err)

		assert.True(t, inv.Subtotal.Equal(decimal.NewFromFloat(1049.99)), "subtotal was %s", inv.Subtotal)
		assert.True(t, inv.VATTotal.Equal(decimal.NewFromFloat(199.50)), "vat was %s", inv.VATTotal)
		assert.True(t, inv.Total.Equal(decimal.NewFromFloat(1249.49)), "total was %s", inv.Total)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.AddLine("Consulting", decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(19))
		assert.Error(t, err)
	})

	t.Run("rejects modification after send", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(19)))
		require.NoError(t, inv.MarkSent())

		err := inv.AddLine("Extra", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(19))
		assert.Error(t, err)
	})
}

func TestInvoice_Lifecycle(t *testing.T) {
	t.Run("draft to sent to paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(19)))

		require.NoError(t, inv.MarkSent())
		assert.Equal(t, InvoiceStatusSent, inv.Status)

		paidAt := time.Now()
		require.NoError(t, inv.MarkPaid(paidAt))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.PaidAt)
		assert.Equal(t, paidAt, *inv.PaidAt)
	})

	t.Run("cannot send empty invoice", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.MarkSent())
	})

	t.Run("cannot pay a draft", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.MarkPaid(time.Now()))
	})

	t.Run("overdue requires being past due", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(19)))
		require.NoError(t, inv.MarkSent())

		assert.Error(t, inv.MarkOverdue(inv.DueDate))

		require.NoError(t, inv.MarkOverdue(inv.DueDate.Add(time.Hour)))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)

		require.NoError(t, inv.MarkPaid(time.Now()))
	})
}

func TestInvoice_Reminders(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.NewFromInt(19)))
	require.NoError(t, inv.MarkSent())

	assert.False(t, inv.IsPastDue(inv.DueDate))
	assert.True(t, inv.IsPastDue(inv.DueDate.Add(time.Minute)))

	sentAt := inv.DueDate.AddDate(0, 0, 1)
	inv.RecordReminder(sentAt)
	inv.RecordReminder(sentAt.AddDate(0, 0, 1))

	assert.Equal(t, 2, inv.ReminderCount)
	require.NotNil(t, inv.LastReminderAt)
	assert.Equal(t, sentAt.AddDate(0, 0, 1), *inv.LastReminderAt)
}
