package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
)

// BalanceResponse represents a resolved available-for-withdrawal amount.
type BalanceResponse struct {
	Available  decimal.Decimal `json:"available"`
	Source     string          `json:"source"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// WithdrawalResponse represents a withdrawal request in API responses.
type WithdrawalResponse struct {
	ID          string          `json:"id"`
	CreatorID   string          `json:"creator_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PayPalEmail string          `json:"paypal_email"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

// WithdrawalFromDomain converts a domain withdrawal request to a response.
func WithdrawalFromDomain(w *domain.WithdrawalRequest) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:          w.ID,
		CreatorID:   w.CreatorID,
		Amount:      w.Amount,
		Status:      string(w.Status),
		PayPalEmail: w.PayPalEmail,
		CreatedAt:   w.CreatedAt,
		ProcessedAt: w.ProcessedAt,
	}
}

// WithdrawalsFromDomain converts domain withdrawal requests to responses.
func WithdrawalsFromDomain(requests []*domain.WithdrawalRequest) []*WithdrawalResponse {
	result := make([]*WithdrawalResponse, len(requests))
	for i, w := range requests {
		result[i] = WithdrawalFromDomain(w)
	}
	return result
}

// ListWithdrawalsResponse represents a page of withdrawal requests.
type ListWithdrawalsResponse struct {
	Withdrawals []*WithdrawalResponse `json:"withdrawals"`
	Total       int64                 `json:"total"`
}

// TransactionResponse represents a wallet transaction in API responses.
type TransactionResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Description   string          `json:"description,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain wallet transaction to a response.
func TransactionFromDomain(t *domain.WalletTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		PaymentStatus: string(t.PaymentStatus),
		Description:   t.Description,
		ReferenceID:   t.ReferenceID,
		CreatedAt:     t.CreatedAt,
	}
}

// StartTopUpResponse represents a started top-up awaiting gateway approval.
type StartTopUpResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	OrderID     string               `json:"order_id"`
}

// CaptureTopUpResponse represents the outcome of a top-up capture.
type CaptureTopUpResponse struct {
	Amount           decimal.Decimal `json:"amount"`
	ReferenceID      string          `json:"reference_id"`
	AlreadyProcessed bool            `json:"already_processed"`
}

// EarningResponse represents a creator earning in API responses.
type EarningResponse struct {
	ID        string          `json:"id"`
	CreatorID string          `json:"creator_id"`
	RequestID string          `json:"request_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// EarningFromDomain converts a domain earning to a response.
func EarningFromDomain(e *domain.Earning) *EarningResponse {
	return &EarningResponse{
		ID:        e.ID,
		CreatorID: e.CreatorID,
		RequestID: e.RequestID,
		Amount:    e.Amount,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

// EarningsFromDomain converts domain earnings to responses.
func EarningsFromDomain(earnings []*domain.Earning) []*EarningResponse {
	result := make([]*EarningResponse, len(earnings))
	for i, e := range earnings {
		result[i] = EarningFromDomain(e)
	}
	return result
}

// ListEarningsResponse represents a page of earnings.
type ListEarningsResponse struct {
	Earnings []*EarningResponse `json:"earnings"`
	Total    int64              `json:"total"`
}

// EarningsSummaryResponse represents aggregated earnings totals.
type EarningsSummaryResponse struct {
	Total   decimal.Decimal `json:"total"`
	Pending decimal.Decimal `json:"pending"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		WalletBalance: u.WalletBalance,
		Active:        u.Active,
		CreatedAt:     u.CreatedAt,
	}
}

// AdjustBalanceResponse represents the result of an admin adjustment.
type AdjustBalanceResponse struct {
	UserID     string          `json:"user_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
