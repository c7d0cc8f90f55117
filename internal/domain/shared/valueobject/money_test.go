package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		price    string
		want     string
	}{
		{"whole numbers", "2", "25.90", "51.80"},
		{"rounds half up", "1.5", "8.333", "12.50"},
		{"rounds down below half", "3", "0.3333", "1.00"},
		{"four decimal quantity", "0.1250", "100.00", "12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := decimal.NewFromString(tt.quantity)
			require.NoError(t, err)
			p, err := decimal.NewFromString(tt.price)
			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)

			got := Subtotal(q, p)
			assert.True(t, got.Amount().Equal(want), "got %s", got.Amount())
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, err := NewMoneyBRLFromString("10.50")
	require.NoError(t, err)
	b, err := NewMoneyBRLFromString("4.25")
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "14.75", sum.StringFixed())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "6.25", diff.StringFixed())

	less, err := b.LessThan(a)
	require.NoError(t, err)
	assert.True(t, less)
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	brl, err := NewMoney(decimal.NewFromInt(10), BRL)
	require.NoError(t, err)
	usd, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)

	_, err = brl.Add(usd)
	assert.Error(t, err)
}
