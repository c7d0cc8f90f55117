// Package notify provides reminder delivery backends. Only the logging
// backend exists today; a WhatsApp or SMS gateway integration would
// implement the same interface.
package notify

import (
	"context"

	"github.com/crediario/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// LogSender "delivers" notifications by writing them to the log. It
// stands in for a real messaging gateway in development and tests.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("notify")}
}

// Send logs the notification content and reports success.
func (s *LogSender) Send(_ context.Context, notification *billing.Notification) error {
	invoiceID := ""
	if notification.InvoiceID != nil {
		invoiceID = notification.InvoiceID.String()
	}
	customerID := ""
	if notification.CustomerID != nil {
		customerID = notification.CustomerID.String()
	}
	s.logger.Info("Sending notification",
		zap.String("notification_id", notification.ID.String()),
		zap.String("customer_id", customerID),
		zap.String("invoice_id", invoiceID),
		zap.String("type", string(notification.Type)),
		zap.String("channel", string(notification.Channel)),
		zap.String("recipient", notification.Recipient),
		zap.String("content", notification.Content),
	)
	return nil
}
