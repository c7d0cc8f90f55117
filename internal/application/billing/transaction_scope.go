package billing

import (
	"context"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories the
// billing operations touch. When a function executes within a scope, all
// repository operations are part of the same database transaction and are
// committed or rolled back atomically.
//
// Lock ordering: operations that lock both the customer and an invoice must
// always take the customer row first (via CustomerRepo().FindByIDForUpdate)
// and the invoice second. Every write path in this package follows that
// order so concurrent writers cannot deadlock.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories scoped to
// the current transaction.
//
// Aggregate boundary notes:
//   - InvoiceRepo: the Invoice aggregate root. Line items are child entities
//     persisted through the root, with no independent repository.
//   - CustomerRepo: the Customer aggregate, whose cached balance is the
//     single most contended row. FindByIDForUpdate on it is the system's
//     serialization point for balance changes.
//   - PaymentRepo: payments are their own small aggregate; the paid sum per
//     invoice is always recomputed from storage, never cached.
type TransactionalRepositories interface {
	CustomerRepo() partner.CustomerRepository
	InvoiceRepo() billing.InvoiceRepository
	PaymentRepo() billing.PaymentRepository
	NotificationRepo() billing.NotificationRepository
	AttachmentRepo() billing.AttachmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	customerRepo     partner.CustomerRepository
	invoiceRepo      billing.InvoiceRepository
	paymentRepo      billing.PaymentRepository
	notificationRepo billing.NotificationRepository
	attachmentRepo   billing.AttachmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	customerRepo partner.CustomerRepository,
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	notificationRepo billing.NotificationRepository,
	attachmentRepo billing.AttachmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customerRepo:     customerRepo,
		invoiceRepo:      invoiceRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		attachmentRepo:   attachmentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// NotificationRepo returns the notification repository.
func (s *NoOpTransactionScope) NotificationRepo() billing.NotificationRepository {
	return s.notificationRepo
}

// AttachmentRepo returns the attachment repository.
func (s *NoOpTransactionScope) AttachmentRepo() billing.AttachmentRepository {
	return s.attachmentRepo
}
