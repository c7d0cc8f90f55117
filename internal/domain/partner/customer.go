package partner

import (
	"regexp"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer represents a credit-account customer.
// It is the aggregate root for customer-related operations.
//
// BalanceOwed is a derived cache: it always equals the sum of totals of the
// customer's non-cancelled invoices minus the sum of payments received. It is
// maintained incrementally through ApplyBalanceDelta by the invoice and
// payment services; nothing else may mutate it.
type Customer struct {
	shared.BaseAggregateRoot
	Name        string
	Phone       string
	Address     string
	CreditLimit *decimal.Decimal // nil = unlimited credit
	BalanceOwed decimal.Decimal
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		BalanceOwed:       decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = name
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(phone, address string) error {
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Phone = phone
	c.Address = address
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetCreditLimit sets the customer's credit limit.
// A nil limit means unlimited credit.
func (c *Customer) SetCreditLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit
	c.Touch()
	c.IncrementVersion()

	return nil
}

// ApplyBalanceDelta adjusts the customer's outstanding balance by delta.
// Positive deltas come from invoice totals, negative deltas from payments.
// Callers must hold the customer row lock for the enclosing transaction.
func (c *Customer) ApplyBalanceDelta(delta decimal.Decimal) {
	if delta.IsZero() {
		return
	}

	oldBalance := c.BalanceOwed
	c.BalanceOwed = c.BalanceOwed.Add(delta)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, oldBalance, c.BalanceOwed))
}

// HasCreditLimit returns true if the customer has a finite credit limit
func (c *Customer) HasCreditLimit() bool {
	return c.CreditLimit != nil
}

// AvailableCredit returns the remaining credit, or nil for unlimited
func (c *Customer) AvailableCredit() *decimal.Decimal {
	if c.CreditLimit == nil {
		return nil
	}
	available := c.CreditLimit.Sub(c.BalanceOwed)
	return &available
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

var validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

func validatePhone(phone string) error {
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 30 characters")
	}
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
