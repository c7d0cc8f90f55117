package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/crediario/backend/internal/domain/partner"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/crediario/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a customer holding an exclusive row lock.
// The repository must be running inside a transaction for the lock to exist.
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPhone finds a customer by phone number, (nil, nil) when absent
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds customers matching the filter with pagination
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var customerModels []models.CustomerModel
	if err := applyPagination(query, filter, customerSortColumns).Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]partner.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return shared.NewPaginated(customers, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a customer; the schema cascades to invoices and payments
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var customerSortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// applyPagination applies ordering and pagination from the filter. The sort
// column must be whitelisted so untrusted input never reaches the ORDER BY.
func applyPagination(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	orderBy := filter.OrderBy
	if !allowed[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, dir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
