package billing

import "github.com/shopspring/decimal"

// CheckCredit verifies that applying delta to a customer's current balance
// stays within the credit limit. A nil limit means unlimited credit.
// Decreases are always allowed regardless of the limit, so a customer who
// is already over (after a limit reduction) can still pay down.
func CheckCredit(currentBalance decimal.Decimal, limit *decimal.Decimal, delta decimal.Decimal) error {
	if limit == nil || !delta.IsPositive() {
		return nil
	}

	attempted := currentBalance.Add(delta)
	if attempted.GreaterThan(*limit) {
		return &CreditLimitExceededError{Limit: *limit, AttemptedBalance: attempted}
	}
	return nil
}
