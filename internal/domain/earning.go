package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EarningStatus string

const (
	EarningStatusPending   EarningStatus = "pending"
	EarningStatusCompleted EarningStatus = "completed"
	EarningStatusRefunded  EarningStatus = "refunded"
)

// Earning is a creator's credit for a fulfilled video request. Credits are
// applied to the wallet balance by the ledger; these rows are the read model
// behind the earnings page.
type Earning struct {
	ID        string
	CreatorID string
	RequestID string
	Amount    decimal.Decimal
	Status    EarningStatus
	CreatedAt time.Time
}

// EarningsSummary aggregates a creator's earnings by status.
type EarningsSummary struct {
	Total   decimal.Decimal
	Pending decimal.Decimal
}

// SummarizeEarnings computes completed and pending totals.
func SummarizeEarnings(earnings []*Earning) EarningsSummary {
	summary := EarningsSummary{Total: decimal.Zero, Pending: decimal.Zero}

	for _, e := range earnings {
		switch e.Status {
		case EarningStatusCompleted:
			summary.Total = summary.Total.Add(e.Amount)
		case EarningStatusPending:
			summary.Pending = summary.Pending.Add(e.Amount)
		}
	}

	return summary
}
