package billing

import (
	"context"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/partner"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderSender delivers a notification over its channel. Implementations
// must be safe for concurrent use.
type ReminderSender interface {
	Send(ctx context.Context, notification *billing.Notification) error
}

// NotificationService schedules due-date reminders and dispatches pending
// notifications. Scheduling is idempotent: running it twice for the same day
// creates no duplicates, keyed by (invoice, type, scheduled date).
type NotificationService struct {
	scope            TransactionScope
	notificationRepo billing.NotificationRepository
	sender           ReminderSender
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(scope TransactionScope, notificationRepo billing.NotificationRepository, sender ReminderSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		scope:            scope,
		notificationRepo: notificationRepo,
		sender:           sender,
		logger:           logger,
	}
}

// ScheduleDueReminders creates a due-date reminder for every open or
// partially paid invoice whose due date falls daysAhead days from today.
// Returns the number of reminders created.
func (s *NotificationService) ScheduleDueReminders(ctx context.Context, daysAhead int) (int, error) {
	target := time.Now().AddDate(0, 0, daysAhead)
	created := 0

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindDueOn(ctx, target, []billing.InvoiceStatus{
			billing.InvoiceStatusOpen,
			billing.InvoiceStatusPartial,
		})
		if err != nil {
			return err
		}

		for _, invoice := range invoices {
			exists, err := repos.NotificationRepo().ExistsForKey(ctx, invoice.ID, billing.NotificationTypeDueReminder, target)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			customer, err := repos.CustomerRepo().FindByID(ctx, invoice.CustomerID)
			if err != nil {
				return err
			}

			notification, err := s.buildDueReminder(customer, invoice, target)
			if err != nil {
				return err
			}
			if err := repos.NotificationRepo().Save(ctx, notification); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		s.logger.Info("scheduled due reminders",
			zap.Int("created", created),
			zap.Time("due_date", target))
	}
	return created, nil
}

// DispatchPending sends up to limit pending notifications whose scheduled
// time has arrived. Failures are recorded on the notification and do not
// stop the batch.
func (s *NotificationService) DispatchPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.notificationRepo.FindPending(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, notification := range pending {
		if err := s.sender.Send(ctx, notification); err != nil {
			notification.MarkFailed(err.Error())
			s.logger.Warn("notification delivery failed",
				zap.String("notification_id", notification.ID.String()),
				zap.Error(err))
		} else {
			notification.MarkSent(time.Now())
			sent++
		}

		if err := s.notificationRepo.Save(ctx, notification); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// ListByInvoice retrieves all notifications for an invoice
func (s *NotificationService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, *ToNotificationResponse(n))
	}
	return responses, nil
}

func (s *NotificationService) buildDueReminder(customer *partner.Customer, invoice *billing.Invoice, dueDate time.Time) (*billing.Notification, error) {
	number := invoice.Number
	if number == "" {
		number = invoice.ID.String()[:8]
	}
	content := billing.DueReminderContent(customer.Name, number, invoice.Total, dueDate)

	return billing.NewNotification(&customer.ID, &invoice.ID, billing.NotificationTypeDueReminder,
		billing.NotificationChannelWhatsApp, customer.Phone, content, dueDate)
}
