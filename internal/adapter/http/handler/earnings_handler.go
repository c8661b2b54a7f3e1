package handler

import (
	"context"
	"net/http"

	"github.com/starclip/wallet/internal/adapter/http/dto"
	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// EarningsService defines the behavior needed by EarningsHandler.
type EarningsService interface {
	ListEarnings(ctx context.Context, input usecase.ListEarningsInput) ([]*domain.Earning, error)
	Summary(ctx context.Context, creatorID string) (domain.EarningsSummary, error)
}

// EarningsHandler handles earnings-related HTTP requests.
type EarningsHandler struct {
	earningsUC EarningsService
}

// NewEarningsHandler creates a new EarningsHandler.
func NewEarningsHandler(earningsUC EarningsService) *EarningsHandler {
	return &EarningsHandler{earningsUC: earningsUC}
}

// List lists the caller's earnings, newest first.
func (h *EarningsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	earnings, err := h.earningsUC.ListEarnings(r.Context(), usecase.ListEarningsInput{
		CreatorID: user.ID,
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list earnings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEarningsResponse{
		Earnings: dto.EarningsFromDomain(earnings),
		Total:    int64(len(earnings)),
	})
}

// Summary returns the caller's aggregated earnings totals.
func (h *EarningsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	summary, err := h.earningsUC.Summary(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize earnings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EarningsSummaryResponse{
		Total:   summary.Total,
		Pending: summary.Pending,
	})
}
