package dto

import (
	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/usecase"
)

// SubmitWithdrawalRequest represents a request to submit a withdrawal.
type SubmitWithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PayPalEmail string          `json:"paypal_email"`
}

// ToUseCaseInput converts to use case input for the given creator.
func (r *SubmitWithdrawalRequest) ToUseCaseInput(creatorID string) usecase.SubmitWithdrawalInput {
	return usecase.SubmitWithdrawalInput{
		CreatorID:   creatorID,
		Amount:      r.Amount,
		PayPalEmail: r.PayPalEmail,
	}
}

// FailWithdrawalRequest represents a request to mark a withdrawal failed.
type FailWithdrawalRequest struct {
	Reason string `json:"reason"`
}

// StartTopUpRequest represents a request to start a wallet top-up.
type StartTopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the given user.
func (r *StartTopUpRequest) ToUseCaseInput(userID string) usecase.StartTopUpInput {
	return usecase.StartTopUpInput{
		UserID: userID,
		Amount: r.Amount,
	}
}

// CaptureTopUpRequest represents a request to capture a started top-up.
type CaptureTopUpRequest struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
}

// ToUseCaseInput converts to use case input for the given user.
func (r *CaptureTopUpRequest) ToUseCaseInput(userID string) usecase.CaptureTopUpInput {
	return usecase.CaptureTopUpInput{
		UserID:        userID,
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
	}
}

// AdjustBalanceRequest represents an admin balance adjustment.
type AdjustBalanceRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason"`
}

// ToUseCaseInput converts to use case input for the target user.
func (r *AdjustBalanceRequest) ToUseCaseInput(userID string) usecase.AdjustBalanceInput {
	return usecase.AdjustBalanceInput{
		UserID: userID,
		Delta:  r.Delta,
		Reason: r.Reason,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
