package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starclip/wallet/internal/adapter/http/dto"
	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	SubmitWithdrawal(ctx context.Context, input usecase.SubmitWithdrawalInput) (*domain.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, id string) (*domain.WithdrawalRequest, error)
	FailWithdrawal(ctx context.Context, id, reason string) (*domain.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, input usecase.ListWithdrawalsInput) ([]*domain.WithdrawalRequest, error)
}

// WithdrawalHandler handles withdrawal-related HTTP requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalUC WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUC: withdrawalUC}
}

// Submit creates a pending withdrawal request for the caller.
func (h *WithdrawalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req dto.SubmitWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	request, err := h.withdrawalUC.SubmitWithdrawal(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to submit withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromDomain(request))
}

// Approve completes a pending withdrawal through the ledger.
func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	request, err := h.withdrawalUC.ApproveWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(request))
}

// Fail marks a pending withdrawal as failed, releasing its hold.
func (h *WithdrawalHandler) Fail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	var req dto.FailWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	request, err := h.withdrawalUC.FailWithdrawal(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to fail withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(request))
}

// List lists the caller's withdrawal requests.
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	requests, err := h.withdrawalUC.ListWithdrawals(r.Context(), usecase.ListWithdrawalsInput{
		CreatorID: user.ID,
		Status:    domain.WithdrawalStatus(r.URL.Query().Get("status")),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list withdrawals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWithdrawalsResponse{
		Withdrawals: dto.WithdrawalsFromDomain(requests),
		Total:       int64(len(requests)),
	})
}
