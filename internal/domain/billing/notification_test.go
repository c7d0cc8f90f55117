package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationLifecycle(t *testing.T) {
	customerID := uuid.New()
	invoiceID := uuid.New()
	notif, err := NewNotification(&customerID, &invoiceID, NotificationTypeDueReminder, NotificationChannelWhatsApp,
		"+55 11 99999-0000", "lembrete", time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, NotificationStatusPending, notif.Status)
	require.NotNil(t, notif.CustomerID)
	require.NotNil(t, notif.InvoiceID)
	assert.Equal(t, customerID, *notif.CustomerID)
	assert.Equal(t, invoiceID, *notif.InvoiceID)

	notif.MarkFailed("gateway timeout")
	assert.Equal(t, NotificationStatusFailed, notif.Status)
	assert.Equal(t, 1, notif.Attempts)
	assert.Equal(t, "gateway timeout", notif.LastError)

	sentAt := time.Now()
	notif.MarkSent(sentAt)
	assert.Equal(t, NotificationStatusSent, notif.Status)
	assert.Equal(t, 2, notif.Attempts)
	assert.Empty(t, notif.LastError)
	require.NotNil(t, notif.SentAt)
}

func TestNewNotificationOptionalLinks(t *testing.T) {
	customerID := uuid.New()
	invoiceID := uuid.New()

	t.Run("customer only", func(t *testing.T) {
		notif, err := NewNotification(&customerID, nil, NotificationTypeDueReminder, NotificationChannelSMS, "", "x", time.Now())
		require.NoError(t, err)
		assert.NotNil(t, notif.CustomerID)
		assert.Nil(t, notif.InvoiceID)
	})

	t.Run("invoice only", func(t *testing.T) {
		notif, err := NewNotification(nil, &invoiceID, NotificationTypeDueReminder, NotificationChannelSMS, "", "x", time.Now())
		require.NoError(t, err)
		assert.Nil(t, notif.CustomerID)
		assert.NotNil(t, notif.InvoiceID)
	})

	t.Run("no subject rejected", func(t *testing.T) {
		_, err := NewNotification(nil, nil, NotificationTypeDueReminder, NotificationChannelSMS, "", "x", time.Now())
		assert.Error(t, err)

		nilID := uuid.Nil
		_, err = NewNotification(&nilID, &nilID, NotificationTypeDueReminder, NotificationChannelSMS, "", "x", time.Now())
		assert.Error(t, err)
	})
}

func TestNewNotificationValidation(t *testing.T) {
	invoiceID := uuid.New()

	_, err := NewNotification(nil, &invoiceID, "bogus", NotificationChannelSMS, "", "x", time.Now())
	assert.Error(t, err)

	_, err = NewNotification(nil, &invoiceID, NotificationTypeDueReminder, NotificationChannelSMS, "", "", time.Now())
	assert.Error(t, err)
}

func TestDueReminderContent(t *testing.T) {
	due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	content := DueReminderContent("Maria", "1042", dec("150.50"), due)
	assert.Equal(t, "Olá Maria, sua nota #1042 de R$ 150.50 vence em 15/04/2026.", content)
}
