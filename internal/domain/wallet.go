package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the read-model view of a user's ledger balance. The balance
// itself is mutated only by ledger-owned operations (top-up capture, admin
// adjustment, payout completion, earning credit); this service observes it.
type Wallet struct {
	UserID    string
	Balance   decimal.Decimal
	Currency  string
	UpdatedAt time.Time
}

// AvailableForWithdrawal computes the fallback available amount from a raw
// balance and the sum of amounts held by pending withdrawal requests.
// The result is never negative.
func AvailableForWithdrawal(balance, pendingSum decimal.Decimal) decimal.Decimal {
	available := balance.Sub(pendingSum)
	if available.IsNegative() {
		return decimal.Zero
	}

	return available
}
