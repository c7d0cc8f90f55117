package partner

import (
	"time"

	"github.com/crediario/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Phone       string           `json:"phone" binding:"max=30"`
	Address     string           `json:"address" binding:"max=500"`
	CreditLimit *decimal.Decimal `json:"credit_limit"` // null means unlimited
}

// UpdateCustomerRequest represents a request to update a customer.
// Pointer fields distinguish "not provided" from zero values.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// SetCreditLimitRequest changes a customer's credit limit.
// A null limit removes it, making credit unlimited.
type SetCreditLimitRequest struct {
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Phone           string           `json:"phone"`
	Address         string           `json:"address"`
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	BalanceOwed     decimal.Decimal  `json:"balance_owed"`
	AvailableCredit *decimal.Decimal `json:"available_credit"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Address:         c.Address,
		CreditLimit:     c.CreditLimit,
		BalanceOwed:     c.BalanceOwed,
		AvailableCredit: c.AvailableCredit(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.GetVersion(),
	}
}
