package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeEarnings(t *testing.T) {
	earnings := []*Earning{
		{Amount: decimal.RequireFromString("120.00"), Status: EarningStatusCompleted},
		{Amount: decimal.RequireFromString("80.50"), Status: EarningStatusCompleted},
		{Amount: decimal.RequireFromString("45.00"), Status: EarningStatusPending},
		{Amount: decimal.RequireFromString("60.00"), Status: EarningStatusRefunded},
	}

	summary := SummarizeEarnings(earnings)

	if summary.Total.String() != "200.5" {
		t.Errorf("expected completed total 200.5, got %s", summary.Total.String())
	}

	if summary.Pending.String() != "45" {
		t.Errorf("expected pending total 45, got %s", summary.Pending.String())
	}
}

func TestSummarizeEarnings_Empty(t *testing.T) {
	summary := SummarizeEarnings(nil)

	if !summary.Total.IsZero() || !summary.Pending.IsZero() {
		t.Errorf("expected zero totals, got %s / %s", summary.Total, summary.Pending)
	}
}
