package billing

import (
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypePaymentReceived      = "payment.received"
	EventTypePaymentAmountChanged = "payment.amount_changed"
)

// PaymentReceivedEvent is raised when a payment is recorded
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	CustomerID string          `json:"customer_id"`
	InvoiceID  string          `json:"invoice_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(payment *Payment) *PaymentReceivedEvent {
	event := &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceived, AggregateTypePayment, payment.ID),
		CustomerID:      payment.CustomerID.String(),
		Amount:          payment.Amount,
	}
	if payment.InvoiceID != nil {
		event.InvoiceID = payment.InvoiceID.String()
	}
	return event
}

// PaymentAmountChangedEvent is raised when a recorded payment is corrected
type PaymentAmountChangedEvent struct {
	shared.BaseDomainEvent
	OldAmount decimal.Decimal `json:"old_amount"`
	NewAmount decimal.Decimal `json:"new_amount"`
}

// NewPaymentAmountChangedEvent creates a new PaymentAmountChangedEvent
func NewPaymentAmountChangedEvent(payment *Payment, oldAmount, newAmount decimal.Decimal) *PaymentAmountChangedEvent {
	return &PaymentAmountChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentAmountChanged, AggregateTypePayment, payment.ID),
		OldAmount:       oldAmount,
		NewAmount:       newAmount,
	}
}
