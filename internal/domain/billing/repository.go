package billing

import (
	"context"
	"time"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the persistence contract for invoices.
// Implementations load and save the invoice together with its line items.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByIDForUpdate loads the invoice holding an exclusive row lock.
	// Only valid on repositories obtained from a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Invoice], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Invoice], error)
	// FindDueOn returns invoices whose due date falls on the given day and
	// whose status is one of the given statuses.
	FindDueOn(ctx context.Context, day time.Time, statuses []InvoiceStatus) ([]*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository defines the persistence contract for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Payment], error)
	// SumByInvoice returns the total amount paid toward an invoice
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	// SumByCustomer returns the total amount ever paid by a customer
	SumByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	// UnlinkInvoice detaches all payments from an invoice, keeping them on
	// the customer's history as account payments.
	UnlinkInvoice(ctx context.Context, invoiceID uuid.UUID) error
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the persistence contract for notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// FindPending returns undelivered notifications due at or before the
	// given time: pending ones plus failed ones with fewer than
	// MaxDeliveryAttempts attempts.
	FindPending(ctx context.Context, before time.Time, limit int) ([]*Notification, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Notification, error)
	// ExistsForKey reports whether a notification already exists for the
	// (invoice, type, scheduled date) idempotency key.
	ExistsForKey(ctx context.Context, invoiceID uuid.UUID, notifType NotificationType, day time.Time) (bool, error)
	Save(ctx context.Context, notification *Notification) error
}

// AttachmentRepository defines the persistence contract for attachments
type AttachmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Attachment, error)
	Save(ctx context.Context, attachment *Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
