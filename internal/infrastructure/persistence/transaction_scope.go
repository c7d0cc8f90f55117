package persistence

import (
	"context"

	appbilling "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormTransactionScope implements the billing TransactionScope using GORM
// transactions. Every Execute call opens one database transaction; all
// repositories handed to the callback run on it, so row locks taken via
// FindByIDForUpdate hold until commit or rollback.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionalRepositories{tx: tx})
	})
}

// transactionalRepositories provides repositories bound to one transaction
type transactionalRepositories struct {
	tx *gorm.DB
}

func (r *transactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *transactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *transactionalRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *transactionalRepositories) NotificationRepo() billing.NotificationRepository {
	return NewGormNotificationRepository(r.tx)
}

func (r *transactionalRepositories) AttachmentRepo() billing.AttachmentRepository {
	return NewGormAttachmentRepository(r.tx)
}
