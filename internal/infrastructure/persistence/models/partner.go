package models

import (
	"github.com/crediario/backend/internal/domain/partner"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
// CreditLimit is nullable: NULL means the customer has no limit.
type CustomerModel struct {
	AggregateModel
	Name        string           `gorm:"type:varchar(200);not null"`
	Phone       string           `gorm:"type:varchar(30);index"`
	Address     string           `gorm:"type:text"`
	CreditLimit *decimal.Decimal `gorm:"type:decimal(18,2)"`
	BalanceOwed decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:        m.Name,
		Phone:       m.Phone,
		Address:     m.Address,
		CreditLimit: m.CreditLimit,
		BalanceOwed: m.BalanceOwed,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Address = c.Address
	m.CreditLimit = c.CreditLimit
	m.BalanceOwed = c.BalanceOwed
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
