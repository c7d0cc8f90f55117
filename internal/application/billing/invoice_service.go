package billing

import (
	"context"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice lifecycle operations. Every operation that
// moves a customer's balance runs inside the transaction scope, takes the
// customer row lock first, and either commits all of its effects or none.
type InvoiceService struct {
	scope       TransactionScope
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, invoiceRepo billing.InvoiceRepository, paymentRepo billing.PaymentRepository) *InvoiceService {
	return &InvoiceService{
		scope:       scope,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
	}
}

// Create creates an invoice, checks the customer's credit limit against the
// new total and adds the total to the customer's balance, all atomically.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	var invoice *billing.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoice(req.CustomerID, req.Number, issueDate, req.DueDate, toItemInputs(req.Items))
		if err != nil {
			return err
		}

		if err := billing.CheckCredit(customer.BalanceOwed, customer.CreditLimit, invoice.Total); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		customer.ApplyBalanceDelta(invoice.Total)
		return repos.CustomerRepo().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice, decimal.Zero), nil
}

// UpdateItems replaces an invoice's line items, recomputes the total and
// applies the total delta to the customer's balance. Increases are checked
// against the credit limit; decreases always go through. The status is
// re-derived from the payments already applied.
func (s *InvoiceService) UpdateItems(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceItemsRequest) (*InvoiceResponse, error) {
	var invoice *billing.Invoice
	var paid decimal.Decimal

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Peek at the invoice to learn the customer, then lock in order:
		// customer first, invoice second.
		existing, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, existing.CustomerID)
		if err != nil {
			return err
		}

		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		delta, err := invoice.ReplaceItems(toItemInputs(req.Items))
		if err != nil {
			return err
		}

		if err := billing.CheckCredit(customer.BalanceOwed, customer.CreditLimit, delta); err != nil {
			return err
		}

		paid, err = repos.PaymentRepo().SumByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		invoice.RefreshStatus(paid)

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		customer.ApplyBalanceDelta(delta)
		return repos.CustomerRepo().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice, paid), nil
}

// Cancel cancels an invoice and releases its unpaid remainder from the
// customer's balance. Payments already applied stay on record.
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *billing.Invoice
	var paid decimal.Decimal

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, existing.CustomerID)
		if err != nil {
			return err
		}

		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		paid, err = repos.PaymentRepo().SumByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		if err := invoice.Cancel(); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		remaining := invoice.RemainingDue(paid)
		if remaining.IsPositive() {
			customer.ApplyBalanceDelta(remaining.Neg())
			return repos.CustomerRepo().Save(ctx, customer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice, paid), nil
}

// Delete removes an invoice permanently. The unpaid remainder is released
// from the customer's balance first, the way Cancel does, so the books stay
// consistent. Payments already applied are detached and stay on the
// customer's history as account payments.
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, existing.CustomerID)
		if err != nil {
			return err
		}

		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		paid, err := repos.PaymentRepo().SumByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		// A cancelled invoice already released its remainder
		if invoice.Status != billing.InvoiceStatusCancelled {
			remaining := invoice.RemainingDue(paid)
			if remaining.IsPositive() {
				customer.ApplyBalanceDelta(remaining.Neg())
				if err := repos.CustomerRepo().Save(ctx, customer); err != nil {
					return err
				}
			}
		}

		if err := repos.PaymentRepo().UnlinkInvoice(ctx, invoiceID); err != nil {
			return err
		}
		return repos.InvoiceRepo().Delete(ctx, invoiceID)
	})
}

// GetByID retrieves an invoice with its items and paid sum
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.SumByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice, paid), nil
}

// List retrieves invoices, optionally filtered by customer and status
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var result *shared.Paginated[billing.Invoice]
	var err error
	if filter.CustomerID != nil {
		result, err = s.invoiceRepo.FindByCustomer(ctx, *filter.CustomerID, domainFilter)
	} else {
		result, err = s.invoiceRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(result.Items))
	for i := range result.Items {
		inv := &result.Items[i]
		paid, err := s.paymentRepo.SumByInvoice(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *ToInvoiceResponse(inv, paid))
	}

	return shared.NewPaginated(items, result.Total, result.Page, result.PageSize), nil
}

func toItemInputs(items []LineItemRequest) []billing.LineItemInput {
	inputs := make([]billing.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, billing.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inputs
}
