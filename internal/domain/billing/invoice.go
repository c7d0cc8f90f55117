package billing

import (
	"time"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice ("nota")
type InvoiceStatus string

const (
	InvoiceStatusOpen      InvoiceStatus = "open"      // No payment received yet
	InvoiceStatusPartial   InvoiceStatus = "partial"   // 0 < paid < total
	InvoiceStatusPaid      InvoiceStatus = "paid"      // paid >= total
	InvoiceStatusCancelled InvoiceStatus = "cancelled" // Terminal override
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled
}

// CanReceivePayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanReceivePayment() bool {
	return s == InvoiceStatusOpen || s == InvoiceStatusPartial
}

// StatusForPaid derives the invoice status from its total and the sum of
// payments applied to it. Cancelled is a terminal override handled by the
// caller; this function only covers the payment-driven states.
func StatusForPaid(total, paid decimal.Decimal) InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total) && total.IsPositive():
		return InvoiceStatusPaid
	case paid.IsPositive():
		return InvoiceStatusPartial
	default:
		return InvoiceStatusOpen
	}
}

// LineItem is a child entity of Invoice. Its subtotal is always
// quantity x unit price quantized per valueobject.Subtotal.
type LineItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal // up to 4 fractional digits
	UnitPrice   decimal.Decimal // up to 4 fractional digits
	Subtotal    decimal.Decimal // 2 fractional digits
	CreatedAt   time.Time
}

// LineItemInput carries the caller-supplied fields for a line item
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Invoice represents a billable record ("nota") for a customer.
// It is the aggregate root owning its line items. Total is derived from the
// items and Status from the payments applied; both are only mutated through
// the invoice and payment services.
type Invoice struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	Number     string // optional human-facing invoice number
	IssueDate  time.Time
	DueDate    *time.Time
	Total      decimal.Decimal
	Status     InvoiceStatus
	Items      []LineItem
}

// NewInvoice creates a new invoice with its items in one step. Each item's
// subtotal and the invoice total are computed here; the invoice starts Open.
func NewInvoice(customerID uuid.UUID, number string, issueDate time.Time, dueDate *time.Time, items []LineItemInput) (*Invoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Invoice requires a customer")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice requires at least one line item")
	}
	if dueDate != nil && dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the issue date")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Number:            number,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            InvoiceStatusOpen,
	}

	if err := invoice.setItems(items); err != nil {
		return nil, err
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// ReplaceItems swaps the invoice's line items and recomputes the total.
// It returns the total delta (new - old) so the caller can apply the same
// delta to the owning customer's balance inside the enclosing transaction.
func (inv *Invoice) ReplaceItems(items []LineItemInput) (decimal.Decimal, error) {
	if inv.Status == InvoiceStatusCancelled {
		return decimal.Zero, shared.NewDomainError("INVOICE_CANCELLED", "Cannot edit a cancelled invoice")
	}
	if len(items) == 0 {
		return decimal.Zero, shared.NewDomainError("INVALID_ITEMS", "Invoice requires at least one line item")
	}

	oldTotal := inv.Total
	if err := inv.setItems(items); err != nil {
		return decimal.Zero, err
	}

	delta := inv.Total.Sub(oldTotal)
	if !delta.IsZero() {
		inv.Touch()
		inv.IncrementVersion()
		inv.AddDomainEvent(NewInvoiceTotalChangedEvent(inv, oldTotal, inv.Total))
	}

	return delta, nil
}

// setItems validates the inputs, computes subtotals and rebuilds the item
// list, setting Total to the sum of subtotals.
func (inv *Invoice) setItems(items []LineItemInput) error {
	built := make([]LineItem, 0, len(items))
	total := decimal.Zero

	for _, in := range items {
		if err := validateLineItem(in); err != nil {
			return err
		}
		subtotal := valueobject.Subtotal(in.Quantity, in.UnitPrice)
		built = append(built, LineItem{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Subtotal:    subtotal.Amount(),
			CreatedAt:   time.Now(),
		})
		total = total.Add(subtotal.Amount())
	}

	inv.Items = built
	inv.Total = total
	return nil
}

// RefreshStatus re-derives the status from the current paid sum.
// Cancelled invoices keep their terminal status.
func (inv *Invoice) RefreshStatus(paid decimal.Decimal) {
	if inv.Status == InvoiceStatusCancelled {
		return
	}

	next := StatusForPaid(inv.Total, paid)
	if next == inv.Status {
		return
	}

	old := inv.Status
	inv.Status = next
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, old, next))
}

// Cancel marks the invoice as cancelled. The caller is responsible for
// releasing the invoice's outstanding contribution from the customer
// balance within the same transaction.
func (inv *Invoice) Cancel() error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Invoice is already cancelled")
	}

	old := inv.Status
	inv.Status = InvoiceStatusCancelled
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, old, InvoiceStatusCancelled))

	return nil
}

// RemainingDue returns how much is still owed given the paid sum
func (inv *Invoice) RemainingDue(paid decimal.Decimal) decimal.Decimal {
	return inv.Total.Sub(paid)
}

// IsCancelled returns true if the invoice was cancelled
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}

func validateLineItem(in LineItemInput) error {
	if in.Description == "" {
		return shared.NewDomainError("INVALID_ITEM", "Line item description cannot be empty")
	}
	if !in.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_ITEM", "Line item quantity must be positive")
	}
	if in.Quantity.Exponent() < -valueobject.PriceScale {
		return shared.NewDomainError("INVALID_ITEM", "Line item quantity supports at most 4 fractional digits")
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM", "Line item unit price cannot be negative")
	}
	if in.UnitPrice.Exponent() < -valueobject.PriceScale {
		return shared.NewDomainError("INVALID_ITEM", "Line item unit price supports at most 4 fractional digits")
	}
	return nil
}
