package partner

import (
	"context"

	"github.com/crediario/backend/internal/domain/partner"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Phone != "" {
		existing, err := s.customerRepo.FindByPhone(ctx, req.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this phone already exists")
		}
	}

	customer, err := partner.NewCustomer(req.Name)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Address != "" {
		if err := customer.SetContact(req.Phone, req.Address); err != nil {
			return nil, err
		}
	}

	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	return ToCustomerResponse(customer), nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// List retrieves customers with pagination and search
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
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
	domainFilter.Search = filter.Search

	result, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *ToCustomerResponse(&result.Items[i]))
	}

	return shared.NewPaginated(items, result.Total, result.Page, result.PageSize), nil
}

// Update updates a customer's editable fields
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil || req.Address != nil {
		phone := customer.Phone
		address := customer.Address
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := customer.SetContact(phone, address); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	return ToCustomerResponse(customer), nil
}

// SetCreditLimit changes or removes a customer's credit limit. Lowering the
// limit below the current balance is allowed; the customer just cannot take
// on new debt until they pay down.
func (s *CustomerService) SetCreditLimit(ctx context.Context, customerID uuid.UUID, req SetCreditLimitRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.SetCreditLimit(req.CreditLimit); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	return ToCustomerResponse(customer), nil
}

// Delete removes a customer and, through the store's cascade, all their
// invoices, payments, notifications and attachments.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, customerID)
}
