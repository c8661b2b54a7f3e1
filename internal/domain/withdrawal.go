package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// WithdrawalRequest is a creator's request to pay out part of their balance.
// Completion atomically decrements the ledger balance on the ledger side.
type WithdrawalRequest struct {
	ID          string
	CreatorID   string
	Amount      decimal.Decimal
	Status      WithdrawalStatus
	PayPalEmail string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Validate checks if the request is well formed.
func (w *WithdrawalRequest) Validate() error {
	if w.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// HoldsFunds reports whether the request still reduces the amount available
// for withdrawal.
func (s WithdrawalStatus) HoldsFunds() bool {
	return s == WithdrawalStatusPending || s == WithdrawalStatusProcessing
}

// PendingWithdrawalSum sums the amounts of requests that still hold funds.
func PendingWithdrawalSum(requests []*WithdrawalRequest) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range requests {
		if r.Status.HoldsFunds() {
			sum = sum.Add(r.Amount)
		}
	}

	return sum
}
