package billing

import (
	"fmt"
	"time"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationType identifies why a notification was scheduled
type NotificationType string

const (
	NotificationTypeDueReminder NotificationType = "due_reminder"
	NotificationTypeOverdue     NotificationType = "overdue"
)

// IsValid checks if the type is a known NotificationType
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeDueReminder, NotificationTypeOverdue:
		return true
	}
	return false
}

// NotificationChannel identifies the delivery medium
type NotificationChannel string

const (
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
	NotificationChannelSMS      NotificationChannel = "sms"
)

// NotificationStatus tracks delivery state
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// MaxDeliveryAttempts bounds how often a failed notification is retried
// by the dispatch loop.
const MaxDeliveryAttempts = 3

// Notification is a scheduled message about a customer and/or an invoice.
// Both links are optional and survive the deletion of their subject, so
// the notification log stays intact. For invoice-linked notifications at
// most one exists per (invoice, type, scheduled date); the scheduler
// relies on that key to stay idempotent across runs.
type Notification struct {
	shared.BaseAggregateRoot
	CustomerID   *uuid.UUID
	InvoiceID    *uuid.UUID
	Type         NotificationType
	Channel      NotificationChannel
	Recipient    string
	Content      string
	Status       NotificationStatus
	ScheduledFor time.Time // date component is the idempotency key part
	SentAt       *time.Time
	Attempts     int
	LastError    string
}

// NewNotification schedules a notification. At least one of customer or
// invoice must be linked at creation; either link may later be severed by
// the deletion of its subject.
func NewNotification(customerID, invoiceID *uuid.UUID, notifType NotificationType, channel NotificationChannel, recipient, content string, scheduledFor time.Time) (*Notification, error) {
	hasCustomer := customerID != nil && *customerID != uuid.Nil
	hasInvoice := invoiceID != nil && *invoiceID != uuid.Nil
	if !hasCustomer && !hasInvoice {
		return nil, shared.NewDomainError("INVALID_INPUT", "Notification requires a customer or an invoice")
	}
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown notification type")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Notification content cannot be empty")
	}

	n := &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              notifType,
		Channel:           channel,
		Recipient:         recipient,
		Content:           content,
		Status:            NotificationStatusPending,
		ScheduledFor:      scheduledFor,
	}
	if hasCustomer {
		id := *customerID
		n.CustomerID = &id
	}
	if hasInvoice {
		id := *invoiceID
		n.InvoiceID = &id
	}
	return n, nil
}

// MarkSent records a successful delivery attempt
func (n *Notification) MarkSent(at time.Time) {
	n.Status = NotificationStatusSent
	n.SentAt = &at
	n.Attempts++
	n.LastError = ""
	n.Touch()
	n.IncrementVersion()
}

// MarkFailed records a failed delivery attempt. The dispatch loop keeps
// retrying failed notifications until MaxDeliveryAttempts is reached.
func (n *Notification) MarkFailed(reason string) {
	n.Status = NotificationStatusFailed
	n.Attempts++
	n.LastError = reason
	n.Touch()
	n.IncrementVersion()
}

// DueReminderContent builds the message body for a due-date reminder
func DueReminderContent(customerName, invoiceNumber string, total decimal.Decimal, dueDate time.Time) string {
	return fmt.Sprintf("Olá %s, sua nota #%s de R$ %s vence em %s.",
		customerName, invoiceNumber, total.StringFixed(2), dueDate.Format("02/01/2006"))
}
