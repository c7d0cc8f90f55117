package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CreditLimitExceededError is returned when an operation would push a
// customer's balance past their credit limit. It carries the figures so
// callers can surface them to the user.
type CreditLimitExceededError struct {
	Limit            decimal.Decimal
	AttemptedBalance decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded: limit %s, attempted balance %s",
		e.Limit.StringFixed(2), e.AttemptedBalance.StringFixed(2))
}

// OverpaymentError is returned when a payment would exceed an invoice's
// remaining due amount.
type OverpaymentError struct {
	RemainingDue decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds remaining due: only %s left to pay", e.RemainingDue.StringFixed(2))
}
