package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
)

// ResolutionSource identifies which computation path produced an available
// amount.
type ResolutionSource string

const (
	// SourceLedger is the ledger's single round-trip computation.
	SourceLedger ResolutionSource = "ledger"
	// SourceFallback is the local balance-minus-pending computation.
	SourceFallback ResolutionSource = "fallback"
)

// BalanceUseCase resolves the amount available for withdrawal. Two
// independent computations run concurrently: the ledger's authoritative
// entry point, and a fallback over more primitive reads. Both are allowed to
// settle; the primary wins whenever it succeeds, so a fast fallback never
// pre-empts a slower authoritative answer.
type BalanceUseCase struct {
	walletRepo     WalletRepository
	withdrawalRepo WithdrawalRepository
	cache          Cache
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase. cache and metrics are
// optional.
func NewBalanceUseCase(
	walletRepo WalletRepository,
	withdrawalRepo WithdrawalRepository,
	cache Cache,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BalanceUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &BalanceUseCase{
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
		cache:          cache,
		metrics:        m,
		logger:         logger,
	}
}

// AvailableForWithdrawal resolves the available amount for a user.
//
// The primary entry point can be temporarily unavailable (deploy lag, cold
// start) while the primitive reads behind the fallback still answer, which
// is the reason both paths exist. An unknown account is reported as
// domain.ErrAccountNotFound, never as a zero amount. When both paths fail
// the error wraps domain.ErrReconciliationUnavailable and the caller keeps
// whatever value it previously held.
func (uc *BalanceUseCase) AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, ResolutionSource, error) {
	if userID == "" {
		return decimal.Zero, "", domain.ErrAccountNotFound
	}

	var (
		primaryAmount  decimal.Decimal
		primaryErr     error
		fallbackAmount decimal.Decimal
		fallbackErr    error
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		primaryAmount, primaryErr = uc.walletRepo.AvailableForWithdrawal(ctx, userID)
	}()

	go func() {
		defer wg.Done()
		fallbackAmount, fallbackErr = uc.fallbackAvailable(ctx, userID)
	}()

	wg.Wait()

	var (
		amount decimal.Decimal
		source ResolutionSource
	)

	switch {
	case primaryErr == nil:
		amount, source = primaryAmount, SourceLedger

	case errors.Is(primaryErr, domain.ErrAccountNotFound):
		// An unknown account beats a fallback that happened to answer.
		uc.countResolution("ledger", "not_found")
		return decimal.Zero, "", primaryErr

	case fallbackErr == nil:
		uc.logger.WarnContext(ctx, "primary available computation failed, using fallback",
			slog.String("user_id", userID),
			slog.String("error", primaryErr.Error()))
		amount, source = fallbackAmount, SourceFallback

	case errors.Is(fallbackErr, domain.ErrAccountNotFound):
		uc.countResolution("fallback", "not_found")
		return decimal.Zero, "", fallbackErr

	default:
		uc.countResolution("both", "error")
		return decimal.Zero, "", fmt.Errorf("%w: primary: %v; fallback: %v",
			domain.ErrReconciliationUnavailable, primaryErr, fallbackErr)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}

	uc.countResolution(string(source), "ok")
	uc.cacheAvailable(ctx, userID, amount)

	return amount, source, nil
}

// fallbackAvailable computes max(0, balance - pending sum) from primitive
// reads.
func (uc *BalanceUseCase) fallbackAvailable(ctx context.Context, userID string) (decimal.Decimal, error) {
	balance, err := uc.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	pending, err := uc.withdrawalRepo.ListPending(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.AvailableForWithdrawal(balance, domain.PendingWithdrawalSum(pending)), nil
}

// CachedAvailable returns the last cached resolution for a user, if any.
// Used only as a warm-start value; never authoritative.
func (uc *BalanceUseCase) CachedAvailable(ctx context.Context, userID string) (decimal.Decimal, bool) {
	if uc.cache == nil {
		return decimal.Zero, false
	}

	raw, err := uc.cache.Get(ctx, availableCacheKey(userID))
	if err != nil {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}

	return amount, true
}

func (uc *BalanceUseCase) cacheAvailable(ctx context.Context, userID string, amount decimal.Decimal) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Set(ctx, availableCacheKey(userID), amount.String(), AvailableAmountCacheTTL); err != nil {
		uc.logger.DebugContext(ctx, "failed to cache available amount",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}

func (uc *BalanceUseCase) countResolution(source, outcome string) {
	if uc.metrics != nil {
		uc.metrics.BalanceResolutions.WithLabelValues(source, outcome).Inc()
	}
}

func availableCacheKey(userID string) string {
	return "available:" + userID
}
