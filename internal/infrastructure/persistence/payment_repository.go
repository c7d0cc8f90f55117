package persistence

import (
	"context"
	"errors"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice finds all payments applied to an invoice, oldest first
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*billing.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return payments, nil
}

// FindByCustomer finds a customer's payments with pagination
func (r *GormPaymentRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Payment], error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var paymentModels []models.PaymentModel
	if err := applyPagination(query, filter, paymentSortColumns).Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]billing.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.PageSize), nil
}

// SumByInvoice returns the total amount paid toward an invoice
func (r *GormPaymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "invoice_id = ?", invoiceID)
}

// SumByCustomer returns the total amount ever paid by a customer
func (r *GormPaymentRepository) SumByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "customer_id = ?", customerID)
}

func (r *GormPaymentRepository) sum(ctx context.Context, cond string, arg any) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where(cond, arg).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// UnlinkInvoice detaches all payments from an invoice, keeping them on the
// customer's history as account payments
func (r *GormPaymentRepository) UnlinkInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("invoice_id = ?", invoiceID).
		Update("invoice_id", nil).Error
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var paymentSortColumns = map[string]bool{
	"date":       true,
	"amount":     true,
	"created_at": true,
}
