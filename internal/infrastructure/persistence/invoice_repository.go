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
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Invoices are always loaded and saved together with their line items.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an invoice holding an exclusive row lock on the
// invoice row. Items are loaded after the lock is taken.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds a customer's invoices with pagination
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	return r.findPaginated(ctx, filter, func(q *gorm.DB) *gorm.DB {
		return q.Where("customer_id = ?", customerID)
	})
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	return r.findPaginated(ctx, filter, nil)
}

func (r *GormInvoiceRepository) findPaginated(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) (*shared.Paginated[billing.Invoice], error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if scope != nil {
		query = scope(query)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var invoiceModels []models.InvoiceModel
	if err := applyPagination(query, filter, invoiceSortColumns).
		Preload("Items").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// FindDueOn finds invoices due on the given day with one of the statuses
func (r *GormInvoiceRepository) FindDueOn(ctx context.Context, day time.Time, statuses []billing.InvoiceStatus) ([]*billing.Invoice, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("due_date >= ? AND due_date < ? AND status IN ?", dayStart, dayEnd, statuses).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice and replaces its line items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)

	// Replace the item set: the aggregate owns its items, so stale rows
	// from a previous edit must not survive.
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Delete(&models.LineItemModel{}).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// Delete removes an invoice together with its items
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var invoiceSortColumns = map[string]bool{
	"issue_date": true,
	"due_date":   true,
	"total":      true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}
