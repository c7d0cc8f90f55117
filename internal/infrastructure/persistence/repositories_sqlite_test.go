package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSQLiteDB opens an in-memory database with the full schema.
// Row-locking and ILIKE paths are postgres-only and covered by the
// sqlmock tests instead.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CustomerModel{},
		&models.InvoiceModel{},
		&models.LineItemModel{},
		&models.PaymentModel{},
		&models.NotificationModel{},
		&models.AttachmentModel{},
	)
	require.NoError(t, err)

	return db
}

func newTestInvoice(t *testing.T, customerID uuid.UUID, items []billing.LineItemInput) *billing.Invoice {
	t.Helper()

	invoice, err := billing.NewInvoice(customerID, "NF-100", time.Now(), nil, items)
	require.NoError(t, err)
	return invoice
}

func TestGormInvoiceRepository_SaveRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	invoice := newTestInvoice(t, uuid.New(), []billing.LineItemInput{
		{Description: "Saco de cimento", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("32.90")},
		{Description: "Frete", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("50.00")},
	})

	require.NoError(t, repo.Save(ctx, invoice))

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)
	assert.Equal(t, "NF-100", found.Number)
	assert.Equal(t, billing.InvoiceStatusOpen, found.Status)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("379.00")), "total was %s", found.Total)
	assert.Len(t, found.Items, 2)
}

func TestGormInvoiceRepository_SaveReplacesItems(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	invoice := newTestInvoice(t, uuid.New(), []billing.LineItemInput{
		{Description: "Telha", Quantity: decimal.NewFromInt(20), UnitPrice: decimal.RequireFromString("12.00")},
		{Description: "Prego", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("8.50")},
	})
	require.NoError(t, repo.Save(ctx, invoice))

	_, err := invoice.ReplaceItems([]billing.LineItemInput{
		{Description: "Telha colonial", Quantity: decimal.NewFromInt(30), UnitPrice: decimal.RequireFromString("12.00")},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, invoice))

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Telha colonial", found.Items[0].Description)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("360.00")))

	// Stale rows from the first edit must not survive in the table
	var itemCount int64
	require.NoError(t, db.Model(&models.LineItemModel{}).
		Where("invoice_id = ?", invoice.ID).
		Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestGormInvoiceRepository_FindDueOn(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	issue := day.AddDate(0, -1, 0)

	dueToday := day.Add(10 * time.Hour)
	dueLater := day.AddDate(0, 0, 3)

	items := []billing.LineItemInput{
		{Description: "Areia", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("100.00")},
	}

	onTime, err := billing.NewInvoice(uuid.New(), "NF-1", issue, &dueToday, items)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, onTime))

	later, err := billing.NewInvoice(uuid.New(), "NF-2", issue, &dueLater, items)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, later))

	cancelled, err := billing.NewInvoice(uuid.New(), "NF-3", issue, &dueToday, items)
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, repo.Save(ctx, cancelled))

	due, err := repo.FindDueOn(ctx, day, []billing.InvoiceStatus{
		billing.InvoiceStatusOpen, billing.InvoiceStatusPartial,
	})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, onTime.ID, due[0].ID)
}

func TestGormInvoiceRepository_Delete_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	invoice := newTestInvoice(t, uuid.New(), []billing.LineItemInput{
		{Description: "Cal", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("25.00")},
	})
	require.NoError(t, repo.Save(ctx, invoice))

	require.NoError(t, repo.Delete(ctx, invoice.ID))

	_, err := repo.FindByID(ctx, invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPaymentRepository_Sums(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	invoiceID := uuid.New()
	otherInvoiceID := uuid.New()

	save := func(invoice *uuid.UUID, amount string) {
		p, err := billing.NewPayment(customerID, invoice, decimal.RequireFromString(amount), time.Now(), billing.PaymentMethodCash, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}

	save(&invoiceID, "50.00")
	save(&invoiceID, "25.50")
	save(&otherInvoiceID, "10.00")
	save(nil, "5.00") // account-level payment, no invoice

	byInvoice, err := repo.SumByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.True(t, byInvoice.Equal(decimal.RequireFromString("75.50")), "sum was %s", byInvoice)

	empty, err := repo.SumByInvoice(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	byCustomer, err := repo.SumByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.True(t, byCustomer.Equal(decimal.RequireFromString("90.50")), "sum was %s", byCustomer)
}

func TestGormPaymentRepository_FindByInvoice_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	first, err := billing.NewPayment(uuid.New(), &invoiceID, decimal.RequireFromString("30.00"), time.Now().AddDate(0, 0, -1), billing.PaymentMethodPix, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := billing.NewPayment(uuid.New(), &invoiceID, decimal.RequireFromString("20.00"), time.Now(), billing.PaymentMethodCash, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	payments, err := repo.FindByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestGormPaymentRepository_UnlinkInvoice_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	invoiceID := uuid.New()
	otherInvoiceID := uuid.New()

	linked, err := billing.NewPayment(customerID, &invoiceID, decimal.RequireFromString("40.00"), time.Now(), billing.PaymentMethodCash, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, linked))

	untouched, err := billing.NewPayment(customerID, &otherInvoiceID, decimal.RequireFromString("15.00"), time.Now(), billing.PaymentMethodPix, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, untouched))

	require.NoError(t, repo.UnlinkInvoice(ctx, invoiceID))

	// The payment is kept on the customer's history, just detached
	kept, err := repo.FindByID(ctx, linked.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.InvoiceID)
	assert.Equal(t, customerID, kept.CustomerID)

	byCustomer, err := repo.SumByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.True(t, byCustomer.Equal(decimal.RequireFromString("55.00")))

	// Payments on other invoices stay linked
	other, err := repo.FindByID(ctx, untouched.ID)
	require.NoError(t, err)
	require.NotNil(t, other.InvoiceID)
	assert.Equal(t, otherInvoiceID, *other.InvoiceID)
}

func TestGormNotificationRepository_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	invoiceID := uuid.New()
	scheduledFor := time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC)

	notification, err := billing.NewNotification(
		&customerID,
		&invoiceID,
		billing.NotificationTypeDueReminder,
		billing.NotificationChannelWhatsApp,
		"+55 11 98765-4321",
		"Olá Maria, sua nota #NF-100 de R$ 379.00 vence em 15/04/2026.",
		scheduledFor,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, notification))

	t.Run("ExistsForKey matches scheduled date", func(t *testing.T) {
		exists, err := repo.ExistsForKey(ctx, invoiceID, billing.NotificationTypeDueReminder, scheduledFor)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForKey(ctx, invoiceID, billing.NotificationTypeDueReminder, scheduledFor.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate key rejected by unique index", func(t *testing.T) {
		dup, err := billing.NewNotification(
			&customerID,
			&invoiceID,
			billing.NotificationTypeDueReminder,
			billing.NotificationChannelWhatsApp,
			"+55 11 98765-4321",
			"Olá Maria, sua nota #NF-100 de R$ 379.00 vence em 15/04/2026.",
			scheduledFor.Add(2*time.Hour), // same day, different time
		)
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, dup))
	})

	t.Run("links survive the round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, notification.ID)
		require.NoError(t, err)
		require.NotNil(t, found.CustomerID)
		assert.Equal(t, customerID, *found.CustomerID)
		require.NotNil(t, found.InvoiceID)
		assert.Equal(t, invoiceID, *found.InvoiceID)
	})

	t.Run("FindPending honors cutoff and status", func(t *testing.T) {
		pending, err := repo.FindPending(ctx, scheduledFor.Add(time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, notification.ID, pending[0].ID)

		pending, err = repo.FindPending(ctx, scheduledFor.Add(-time.Minute), 10)
		require.NoError(t, err)
		assert.Empty(t, pending)

		notification.MarkSent(time.Now())
		require.NoError(t, repo.Save(ctx, notification))

		pending, err = repo.FindPending(ctx, scheduledFor.Add(time.Minute), 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("FindPending retries failures until the attempt cap", func(t *testing.T) {
		otherInvoiceID := uuid.New()
		failed, err := billing.NewNotification(
			&customerID,
			&otherInvoiceID,
			billing.NotificationTypeDueReminder,
			billing.NotificationChannelWhatsApp,
			"+55 11 98765-4321",
			"Olá Maria, sua nota #NF-101 de R$ 50.00 vence em 15/04/2026.",
			scheduledFor,
		)
		require.NoError(t, err)

		for i := 0; i < billing.MaxDeliveryAttempts-1; i++ {
			failed.MarkFailed("gateway unavailable")
		}
		require.NoError(t, repo.Save(ctx, failed))

		pending, err := repo.FindPending(ctx, scheduledFor.Add(time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, failed.ID, pending[0].ID)

		failed.MarkFailed("gateway unavailable")
		require.NoError(t, repo.Save(ctx, failed))

		pending, err = repo.FindPending(ctx, scheduledFor.Add(time.Minute), 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestGormAttachmentRepository_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormAttachmentRepository(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	attachment, err := billing.NewAttachment(invoiceID, "recibo.pdf", "application/pdf", 2048, "invoices/"+invoiceID.String()+"/recibo.pdf", "Recibo assinado")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, attachment))

	found, err := repo.FindByID(ctx, attachment.ID)
	require.NoError(t, err)
	assert.Equal(t, "recibo.pdf", found.FileName)
	assert.Equal(t, int64(2048), found.SizeBytes)

	byInvoice, err := repo.FindByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.Len(t, byInvoice, 1)

	require.NoError(t, repo.Delete(ctx, attachment.ID))
	_, err = repo.FindByID(ctx, attachment.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
