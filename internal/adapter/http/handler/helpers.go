package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/starclip/wallet/internal/adapter/http/dto"
	"github.com/starclip/wallet/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWithdrawalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReconciliationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrGatewayNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPendingWithdrawalOpen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrWithdrawalNotPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCaptureNotCompleted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNegativeBalanceNotAllowed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAmountTooSmall):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// authedUser extracts the authenticated user or writes 401.
func authedUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return nil, false
	}
	return user, true
}
