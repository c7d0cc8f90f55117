package partner

import (
	"strings"
	"testing"

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

func TestNewCustomer(t *testing.T) {
	t.Run("starts with zero balance and no limit", func(t *testing.T) {
		customer, err := NewCustomer("Maria Silva")
		require.NoError(t, err)

		assert.Equal(t, "Maria Silva", customer.Name)
		assert.True(t, customer.BalanceOwed.IsZero())
		assert.Nil(t, customer.CreditLimit)
		assert.False(t, customer.HasCreditLimit())
		assert.Len(t, customer.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer("")
		assert.Error(t, err)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewCustomer(strings.Repeat("a", 201))
		assert.Error(t, err)
	})
}

func TestCustomerSetContact(t *testing.T) {
	customer, err := NewCustomer("João")
	require.NoError(t, err)

	require.NoError(t, customer.SetContact("+55 (11) 98765-4321", "Rua das Flores, 10"))
	assert.Equal(t, "+55 (11) 98765-4321", customer.Phone)

	assert.Error(t, customer.SetContact("not a phone", ""))
}

func TestCustomerSetCreditLimit(t *testing.T) {
	customer, err := NewCustomer("Ana")
	require.NoError(t, err)

	limit := dec("300.00")
	require.NoError(t, customer.SetCreditLimit(&limit))
	require.NotNil(t, customer.CreditLimit)
	assert.True(t, customer.CreditLimit.Equal(limit))

	// Back to unlimited
	require.NoError(t, customer.SetCreditLimit(nil))
	assert.Nil(t, customer.CreditLimit)

	negative := dec("-1")
	assert.Error(t, customer.SetCreditLimit(&negative))
}

func TestCustomerApplyBalanceDelta(t *testing.T) {
	customer, err := NewCustomer("Pedro")
	require.NoError(t, err)
	customer.ClearDomainEvents()

	customer.ApplyBalanceDelta(dec("150.00"))
	assert.True(t, customer.BalanceOwed.Equal(dec("150.00")))
	assert.Len(t, customer.GetDomainEvents(), 1)

	customer.ApplyBalanceDelta(dec("-50.00"))
	assert.True(t, customer.BalanceOwed.Equal(dec("100.00")))

	// Zero delta is a no-op
	events := len(customer.GetDomainEvents())
	customer.ApplyBalanceDelta(decimal.Zero)
	assert.Len(t, customer.GetDomainEvents(), events)
}

func TestCustomerAvailableCredit(t *testing.T) {
	customer, err := NewCustomer("Rita")
	require.NoError(t, err)

	assert.Nil(t, customer.AvailableCredit())

	limit := dec("500.00")
	require.NoError(t, customer.SetCreditLimit(&limit))
	customer.ApplyBalanceDelta(dec("120.00"))

	available := customer.AvailableCredit()
	require.NotNil(t, available)
	assert.True(t, available.Equal(dec("380.00")))
}
