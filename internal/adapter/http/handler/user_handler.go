package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/adapter/http/dto"
	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	AdjustBalance(ctx context.Context, input usecase.AdjustBalanceInput) (decimal.Decimal, error)
}

// UserHandler handles admin user HTTP requests.
type UserHandler struct {
	userUC UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC UserService) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get user", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// AdjustBalance applies an admin balance adjustment to a user's wallet.
func (h *UserHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	var req dto.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	newBalance, err := h.userUC.AdjustBalance(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to adjust balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustBalanceResponse{
		UserID:     id,
		NewBalance: newBalance,
	})
}
