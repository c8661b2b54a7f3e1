package domain

import "errors"

var (
	// Account / wallet errors
	ErrAccountNotFound           = errors.New("account not found")
	ErrReconciliationUnavailable = errors.New("available amount could not be resolved")
	ErrNegativeBalanceNotAllowed = errors.New("wallet balance cannot go negative")

	// Withdrawal errors
	ErrWithdrawalNotFound    = errors.New("withdrawal request not found")
	ErrWithdrawalNotPending  = errors.New("withdrawal request is not pending")
	ErrInsufficientFunds     = errors.New("amount exceeds available for withdrawal")
	ErrPendingWithdrawalOpen = errors.New("a pending withdrawal request already exists")
	ErrInvalidAmount         = errors.New("amount must be positive")

	// Top-up errors
	ErrTransactionNotFound  = errors.New("wallet transaction not found")
	ErrCaptureNotCompleted  = errors.New("gateway capture did not complete")
	ErrGatewayNotConfigured = errors.New("payment gateway credentials not configured")

	// Change feed errors
	ErrSubscriptionFailed = errors.New("change subscription could not be established")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")
)
