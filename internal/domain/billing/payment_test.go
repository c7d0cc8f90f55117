package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	customerID := uuid.New()
	invoiceID := uuid.New()

	t.Run("creates payment linked to invoice", func(t *testing.T) {
		payment, err := NewPayment(customerID, &invoiceID, dec("50.00"), time.Now(), PaymentMethodPix, "")
		require.NoError(t, err)

		assert.Equal(t, customerID, payment.CustomerID)
		require.NotNil(t, payment.InvoiceID)
		assert.Equal(t, invoiceID, *payment.InvoiceID)
		assert.Len(t, payment.GetDomainEvents(), 1)
	})

	t.Run("defaults method to cash", func(t *testing.T) {
		payment, err := NewPayment(customerID, nil, dec("10.00"), time.Now(), "", "")
		require.NoError(t, err)
		assert.Equal(t, PaymentMethodCash, payment.Method)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewPayment(customerID, nil, dec("0"), time.Now(), PaymentMethodCash, "")
		assert.Error(t, err)

		_, err = NewPayment(customerID, nil, dec("-5.00"), time.Now(), PaymentMethodCash, "")
		assert.Error(t, err)
	})

	t.Run("rejects sub-cent amounts", func(t *testing.T) {
		_, err := NewPayment(customerID, nil, dec("10.001"), time.Now(), PaymentMethodCash, "")
		assert.Error(t, err)
	})
}

func TestPaymentChangeAmount(t *testing.T) {
	payment, err := NewPayment(uuid.New(), nil, dec("50.00"), time.Now(), PaymentMethodCash, "")
	require.NoError(t, err)

	delta, err := payment.ChangeAmount(dec("80.00"))
	require.NoError(t, err)
	assert.True(t, delta.Equal(dec("30.00")))
	assert.True(t, payment.Amount.Equal(dec("80.00")))

	delta, err = payment.ChangeAmount(dec("80.00"))
	require.NoError(t, err)
	assert.True(t, delta.IsZero())

	_, err = payment.ChangeAmount(dec("-1.00"))
	assert.Error(t, err)
}
