package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewInvoice(t *testing.T) {
	customerID := uuid.New()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)

	t.Run("computes subtotals and total", func(t *testing.T) {
		invoice, err := NewInvoice(customerID, "1001", issue, &due, []LineItemInput{
			{Description: "Arroz 5kg", Quantity: dec("2"), UnitPrice: dec("25.90")},
			{Description: "Feijão", Quantity: dec("1.5"), UnitPrice: dec("8.333")},
		})
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusOpen, invoice.Status)
		assert.Len(t, invoice.Items, 2)
		assert.True(t, invoice.Items[0].Subtotal.Equal(dec("51.80")))
		// 1.5 * 8.333 = 12.4995, rounds half-up to 12.50
		assert.True(t, invoice.Items[1].Subtotal.Equal(dec("12.50")))
		assert.True(t, invoice.Total.Equal(dec("64.30")))
		assert.Len(t, invoice.GetDomainEvents(), 1)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := NewInvoice(customerID, "", issue, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		early := issue.AddDate(0, 0, -1)
		_, err := NewInvoice(customerID, "", issue, &early, []LineItemInput{
			{Description: "Item", Quantity: dec("1"), UnitPrice: dec("10")},
		})
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewInvoice(customerID, "", issue, nil, []LineItemInput{
			{Description: "Item", Quantity: decimal.Zero, UnitPrice: dec("10")},
		})
		assert.Error(t, err)
	})

	t.Run("rejects quantity with more than 4 fractional digits", func(t *testing.T) {
		_, err := NewInvoice(customerID, "", issue, nil, []LineItemInput{
			{Description: "Item", Quantity: dec("1.00001"), UnitPrice: dec("10")},
		})
		assert.Error(t, err)
	})
}

func TestInvoiceReplaceItems(t *testing.T) {
	customerID := uuid.New()
	issue := time.Now()

	newTestInvoice := func(t *testing.T) *Invoice {
		invoice, err := NewInvoice(customerID, "1002", issue, nil, []LineItemInput{
			{Description: "Item A", Quantity: dec("1"), UnitPrice: dec("100.00")},
		})
		require.NoError(t, err)
		return invoice
	}

	t.Run("returns total delta", func(t *testing.T) {
		invoice := newTestInvoice(t)

		delta, err := invoice.ReplaceItems([]LineItemInput{
			{Description: "Item A", Quantity: dec("1"), UnitPrice: dec("100.00")},
			{Description: "Item B", Quantity: dec("3"), UnitPrice: dec("10.00")},
		})
		require.NoError(t, err)

		assert.True(t, delta.Equal(dec("30.00")))
		assert.True(t, invoice.Total.Equal(dec("130.00")))
	})

	t.Run("negative delta when total shrinks", func(t *testing.T) {
		invoice := newTestInvoice(t)

		delta, err := invoice.ReplaceItems([]LineItemInput{
			{Description: "Item A", Quantity: dec("1"), UnitPrice: dec("60.00")},
		})
		require.NoError(t, err)

		assert.True(t, delta.Equal(dec("-40.00")))
	})

	t.Run("refuses edits on cancelled invoice", func(t *testing.T) {
		invoice := newTestInvoice(t)
		require.NoError(t, invoice.Cancel())

		_, err := invoice.ReplaceItems([]LineItemInput{
			{Description: "Item", Quantity: dec("1"), UnitPrice: dec("1")},
		})
		assert.Error(t, err)
	})
}

func TestStatusForPaid(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  InvoiceStatus
	}{
		{"nothing paid", "100.00", "0", InvoiceStatusOpen},
		{"partially paid", "100.00", "40.00", InvoiceStatusPartial},
		{"exactly paid", "100.00", "100.00", InvoiceStatusPaid},
		{"overpaid stays paid", "100.00", "120.00", InvoiceStatusPaid},
		{"zero total never paid", "0", "0", InvoiceStatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForPaid(dec(tt.total), dec(tt.paid)))
		})
	}
}

func TestInvoiceRefreshStatus(t *testing.T) {
	customerID := uuid.New()
	invoice, err := NewInvoice(customerID, "1003", time.Now(), nil, []LineItemInput{
		{Description: "Item", Quantity: dec("1"), UnitPrice: dec("50.00")},
	})
	require.NoError(t, err)

	invoice.RefreshStatus(dec("20.00"))
	assert.Equal(t, InvoiceStatusPartial, invoice.Status)

	invoice.RefreshStatus(dec("50.00"))
	assert.Equal(t, InvoiceStatusPaid, invoice.Status)

	// Cancelled is terminal
	require.NoError(t, invoice.Cancel())
	invoice.RefreshStatus(decimal.Zero)
	assert.Equal(t, InvoiceStatusCancelled, invoice.Status)
}

func TestInvoiceCancel(t *testing.T) {
	invoice, err := NewInvoice(uuid.New(), "1004", time.Now(), nil, []LineItemInput{
		{Description: "Item", Quantity: dec("1"), UnitPrice: dec("10.00")},
	})
	require.NoError(t, err)

	require.NoError(t, invoice.Cancel())
	assert.True(t, invoice.IsCancelled())
	assert.Error(t, invoice.Cancel())
}
