package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// AvailableAmountCacheTTL is how long a resolved available amount is kept
	// as a warm-start value. It is never authoritative; every trigger event
	// re-verifies against the ledger.
	AvailableAmountCacheTTL = 30 * time.Second
)
