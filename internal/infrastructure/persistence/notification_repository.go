package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPending finds undelivered notifications scheduled at or before the
// given time: pending ones, plus failed ones still under the retry cap
func (r *GormNotificationRepository) FindPending(ctx context.Context, before time.Time, limit int) ([]*billing.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("(status = ? OR (status = ? AND attempts < ?)) AND scheduled_for <= ?",
			billing.NotificationStatusPending, billing.NotificationStatusFailed,
			billing.MaxDeliveryAttempts, before).
		Order("scheduled_for ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notificationModels []models.NotificationModel
	if err := query.Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]*billing.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = notificationModels[i].ToDomain()
	}
	return notifications, nil
}

// FindByInvoice finds all notifications for an invoice
func (r *GormNotificationRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Notification, error) {
	var notificationModels []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("scheduled_for DESC").
		Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]*billing.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = notificationModels[i].ToDomain()
	}
	return notifications, nil
}

// ExistsForKey reports whether a notification exists for the
// (invoice, type, scheduled date) key.
func (r *GormNotificationRepository) ExistsForKey(ctx context.Context, invoiceID uuid.UUID, notifType billing.NotificationType, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("invoice_id = ? AND type = ? AND scheduled_date = ?",
			invoiceID, notifType, day.Format(models.ScheduledDateLayout)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *billing.Notification) error {
	model := models.NotificationModelFromDomain(notification)
	return r.db.WithContext(ctx).Save(model).Error
}
