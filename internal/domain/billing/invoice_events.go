package billing

import (
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type identifiers for the billing context
const (
	AggregateTypeInvoice      = "Invoice"
	AggregateTypePayment      = "Payment"
	AggregateTypeNotification = "Notification"
)

// Event type constants
const (
	EventTypeInvoiceCreated       = "invoice.created"
	EventTypeInvoiceTotalChanged  = "invoice.total_changed"
	EventTypeInvoiceStatusChanged = "invoice.status_changed"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID),
		CustomerID:      invoice.CustomerID.String(),
		Total:           invoice.Total,
	}
}

// InvoiceTotalChangedEvent is raised when line item edits change the total
type InvoiceTotalChangedEvent struct {
	shared.BaseDomainEvent
	OldTotal decimal.Decimal `json:"old_total"`
	NewTotal decimal.Decimal `json:"new_total"`
}

// NewInvoiceTotalChangedEvent creates a new InvoiceTotalChangedEvent
func NewInvoiceTotalChangedEvent(invoice *Invoice, oldTotal, newTotal decimal.Decimal) *InvoiceTotalChangedEvent {
	return &InvoiceTotalChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceTotalChanged, AggregateTypeInvoice, invoice.ID),
		OldTotal:        oldTotal,
		NewTotal:        newTotal,
	}
}

// InvoiceStatusChangedEvent is raised on any status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus InvoiceStatus `json:"old_status"`
	NewStatus InvoiceStatus `json:"new_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(invoice *Invoice, oldStatus, newStatus InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, invoice.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
