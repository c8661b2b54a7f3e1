package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/adapter/http/dto"
	"github.com/starclip/wallet/internal/usecase"
)

// BalanceService defines the balance resolution behavior needed by WalletHandler.
type BalanceService interface {
	AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error)
}

// TopUpService defines the top-up behavior needed by WalletHandler.
type TopUpService interface {
	StartTopUp(ctx context.Context, input usecase.StartTopUpInput) (*usecase.StartTopUpResult, error)
	CaptureTopUp(ctx context.Context, input usecase.CaptureTopUpInput) (*usecase.CaptureTopUpResult, error)
}

// WalletHandler handles wallet balance and top-up HTTP requests.
type WalletHandler struct {
	balanceUC BalanceService
	topUpUC   TopUpService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(balanceUC BalanceService, topUpUC TopUpService) *WalletHandler {
	return &WalletHandler{
		balanceUC: balanceUC,
		topUpUC:   topUpUC,
	}
}

// Balance resolves the caller's available-for-withdrawal amount.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	amount, source, err := h.balanceUC.AvailableForWithdrawal(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve available amount", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Available:  amount,
		Source:     string(source),
		ResolvedAt: time.Now().UTC(),
	})
}

// StartTopUp records a pending top-up and creates the gateway order.
func (h *WalletHandler) StartTopUp(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req dto.StartTopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.topUpUC.StartTopUp(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to start top-up", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.StartTopUpResponse{
		Transaction: dto.TransactionFromDomain(result.Transaction),
		OrderID:     result.OrderID,
	})
}

// CaptureTopUp captures an approved gateway order and credits the wallet.
func (h *WalletHandler) CaptureTopUp(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req dto.CaptureTopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.topUpUC.CaptureTopUp(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to capture top-up", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CaptureTopUpResponse{
		Amount:           result.Amount,
		ReferenceID:      result.ReferenceID,
		AlreadyProcessed: result.AlreadyProcessed,
	})
}
