package billing

import (
	"time"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodPix      PaymentMethod = "pix"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPix, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment records money received from a customer. When InvoiceID is set the
// payment counts toward that invoice's paid sum; either way it reduces the
// customer's balance. The invoice link is immutable after creation.
type Payment struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	InvoiceID  *uuid.UUID
	Amount     decimal.Decimal // 2 fractional digits, always positive
	Date       time.Time
	Method     PaymentMethod
	Notes      string
}

// NewPayment creates a new payment record
func NewPayment(customerID uuid.UUID, invoiceID *uuid.UUID, amount decimal.Decimal, date time.Time, method PaymentMethod, notes string) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Payment requires a customer")
	}
	if err := validatePaymentAmount(amount); err != nil {
		return nil, err
	}
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}

	payment := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		InvoiceID:         invoiceID,
		Amount:            amount,
		Date:              date,
		Method:            method,
		Notes:             notes,
	}

	payment.AddDomainEvent(NewPaymentReceivedEvent(payment))

	return payment, nil
}

// ChangeAmount updates the payment amount and returns the delta
// (new - old). A positive delta means more was paid than before.
func (p *Payment) ChangeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validatePaymentAmount(amount); err != nil {
		return decimal.Zero, err
	}

	delta := amount.Sub(p.Amount)
	if delta.IsZero() {
		return decimal.Zero, nil
	}

	old := p.Amount
	p.Amount = amount
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentAmountChangedEvent(p, old, amount))

	return delta, nil
}

// UpdateDetails changes the non-monetary fields of the payment
func (p *Payment) UpdateDetails(date time.Time, method PaymentMethod, notes string) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	p.Date = date
	p.Method = method
	p.Notes = notes
	p.Touch()
	p.IncrementVersion()
	return nil
}

func validatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Exponent() < -valueobject.MoneyScale {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount supports at most 2 fractional digits")
	}
	return nil
}
