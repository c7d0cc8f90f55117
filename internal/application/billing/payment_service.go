package billing

import (
	"context"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentService records and corrects payments. Applying a payment never
// lets the paid sum on an invoice exceed its total, and the customer's
// balance moves by exactly the payment delta in the same transaction.
type PaymentService struct {
	scope       TransactionScope
	paymentRepo billing.PaymentRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, paymentRepo billing.PaymentRepository) *PaymentService {
	return &PaymentService{
		scope:       scope,
		paymentRepo: paymentRepo,
	}
}

// Apply records a payment. When linked to an invoice it checks the
// remaining due, re-derives the invoice status, and either way subtracts
// the amount from the customer's balance.
func (s *PaymentService) Apply(ctx context.Context, req ApplyPaymentRequest) (*PaymentResponse, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	var payment *billing.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		if req.InvoiceID != nil {
			invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, *req.InvoiceID)
			if err != nil {
				return err
			}
			if invoice.CustomerID != req.CustomerID {
				return shared.NewDomainError("INVOICE_MISMATCH", "Invoice does not belong to this customer")
			}
			if !invoice.Status.CanReceivePayment() {
				return shared.NewDomainError("INVALID_STATE", "Invoice cannot receive payments in its current status")
			}

			paid, err := repos.PaymentRepo().SumByInvoice(ctx, *req.InvoiceID)
			if err != nil {
				return err
			}
			remaining := invoice.RemainingDue(paid)
			if req.Amount.GreaterThan(remaining) {
				return &billing.OverpaymentError{RemainingDue: remaining}
			}

			payment, err = billing.NewPayment(req.CustomerID, req.InvoiceID, req.Amount, date, billing.PaymentMethod(req.Method), req.Notes)
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
				return err
			}

			invoice.RefreshStatus(paid.Add(req.Amount))
			if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
				return err
			}
		} else {
			payment, err = billing.NewPayment(req.CustomerID, nil, req.Amount, date, billing.PaymentMethod(req.Method), req.Notes)
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
				return err
			}
		}

		customer.ApplyBalanceDelta(req.Amount.Neg())
		return repos.CustomerRepo().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	return ToPaymentResponse(payment), nil
}

// Update corrects a recorded payment. An amount change is re-validated
// against the invoice's remaining due with the old amount excluded, then
// the balance moves by the delta. The invoice link is immutable.
func (s *PaymentService) Update(ctx context.Context, paymentID uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	var payment *billing.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}

		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, existing.CustomerID)
		if err != nil {
			return err
		}

		payment, err = repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}

		if req.Amount != nil && !req.Amount.Equal(payment.Amount) {
			var invoice *billing.Invoice
			if payment.InvoiceID != nil {
				invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, *payment.InvoiceID)
				if err != nil {
					return err
				}

				paid, err := repos.PaymentRepo().SumByInvoice(ctx, *payment.InvoiceID)
				if err != nil {
					return err
				}
				// Remaining due with this payment taken out of the sum
				remaining := invoice.RemainingDue(paid.Sub(payment.Amount))
				if req.Amount.GreaterThan(remaining) {
					return &billing.OverpaymentError{RemainingDue: remaining}
				}

				delta, err := payment.ChangeAmount(*req.Amount)
				if err != nil {
					return err
				}

				invoice.RefreshStatus(paid.Add(delta))
				if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
					return err
				}

				customer.ApplyBalanceDelta(delta.Neg())
			} else {
				delta, err := payment.ChangeAmount(*req.Amount)
				if err != nil {
					return err
				}
				customer.ApplyBalanceDelta(delta.Neg())
			}
		}

		if req.Date != nil || req.Method != nil || req.Notes != nil {
			date := payment.Date
			method := payment.Method
			notes := payment.Notes
			if req.Date != nil {
				date = *req.Date
			}
			if req.Method != nil {
				method = billing.PaymentMethod(*req.Method)
			}
			if req.Notes != nil {
				notes = *req.Notes
			}
			if err := payment.UpdateDetails(date, method, notes); err != nil {
				return err
			}
		}

		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		return repos.CustomerRepo().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	return ToPaymentResponse(payment), nil
}

// Delete removes a payment, restoring its amount to the customer's balance
// and re-deriving the invoice status.
func (s *PaymentService) Delete(ctx context.Context, paymentID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}

		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, payment.CustomerID)
		if err != nil {
			return err
		}

		if payment.InvoiceID != nil {
			invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, *payment.InvoiceID)
			if err != nil {
				return err
			}

			paid, err := repos.PaymentRepo().SumByInvoice(ctx, *payment.InvoiceID)
			if err != nil {
				return err
			}

			if err := repos.PaymentRepo().Delete(ctx, paymentID); err != nil {
				return err
			}

			invoice.RefreshStatus(paid.Sub(payment.Amount))
			if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
				return err
			}
		} else {
			if err := repos.PaymentRepo().Delete(ctx, paymentID); err != nil {
				return err
			}
		}

		customer.ApplyBalanceDelta(payment.Amount)
		return repos.CustomerRepo().Save(ctx, customer)
	})
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// ListByInvoice retrieves all payments applied to an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, *ToPaymentResponse(p))
	}
	return responses, nil
}

// ListByCustomer retrieves a customer's payments with pagination
func (s *PaymentService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
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

	result, err := s.paymentRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *ToPaymentResponse(&result.Items[i]))
	}
	return shared.NewPaginated(items, result.Total, result.Page, result.PageSize), nil
}
