package persistence

import (
	"context"
	"errors"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByID finds an attachment by its ID
func (r *GormAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Attachment, error) {
	var model models.AttachmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice finds all attachments of an invoice, newest first
func (r *GormAttachmentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Attachment, error) {
	var attachmentModels []models.AttachmentModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("uploaded_at DESC").
		Find(&attachmentModels).Error; err != nil {
		return nil, err
	}

	attachments := make([]*billing.Attachment, len(attachmentModels))
	for i := range attachmentModels {
		attachments[i] = attachmentModels[i].ToDomain()
	}
	return attachments, nil
}

// Save creates or updates an attachment
func (r *GormAttachmentRepository) Save(ctx context.Context, attachment *billing.Attachment) error {
	model := models.AttachmentModelFromDomain(attachment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an attachment
func (r *GormAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AttachmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
