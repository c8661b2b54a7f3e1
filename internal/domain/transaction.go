package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeTopUp      TransactionType = "top_up"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// WalletTransaction records a single wallet mutation request. The balance
// effect of marking it completed is performed by the ledger's
// process_paypal_transaction entry point, not by this service.
type WalletTransaction struct {
	ID            string
	UserID        string
	Type          TransactionType
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentStatus PaymentStatus
	Description   string
	ReferenceID   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks if the transaction is well formed.
func (t *WalletTransaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
