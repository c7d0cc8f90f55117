package partner

import (
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated        = "CustomerCreated"
	EventTypeCustomerUpdated        = "CustomerUpdated"
	EventTypeCustomerBalanceChanged = "CustomerBalanceChanged"
	EventTypeCustomerDeleted        = "CustomerDeleted"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
	}
}

// CustomerUpdatedEvent is published when a customer is updated
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
		Phone:           customer.Phone,
	}
}

// CustomerBalanceChangedEvent is published when a customer's outstanding balance changes
type CustomerBalanceChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewCustomerBalanceChangedEvent creates a new CustomerBalanceChangedEvent
func NewCustomerBalanceChangedEvent(customer *Customer, oldBalance, newBalance decimal.Decimal) *CustomerBalanceChangedEvent {
	return &CustomerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerBalanceChanged, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
	}
}
