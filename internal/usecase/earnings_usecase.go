package usecase

import (
	"context"
	"log/slog"

	"github.com/starclip/wallet/internal/domain"
)

// EarningsUseCase exposes the creator earnings read model.
type EarningsUseCase struct {
	earningRepo EarningRepository
	logger      *slog.Logger
}

// NewEarningsUseCase creates a new EarningsUseCase.
func NewEarningsUseCase(earningRepo EarningRepository, logger *slog.Logger) *EarningsUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &EarningsUseCase{earningRepo: earningRepo, logger: logger}
}

// ListEarningsInput represents input for listing earnings.
type ListEarningsInput struct {
	CreatorID string
	Limit     int
	Offset    int
}

// ListEarnings lists a creator's earnings, newest first.
func (uc *EarningsUseCase) ListEarnings(ctx context.Context, input ListEarningsInput) ([]*domain.Earning, error) {
	if input.CreatorID == "" {
		return nil, domain.ErrAccountNotFound
	}

	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.earningRepo.ListByCreator(ctx, input.CreatorID, limit, offset)
}

// Summary returns the creator's total and pending earnings.
func (uc *EarningsUseCase) Summary(ctx context.Context, creatorID string) (domain.EarningsSummary, error) {
	if creatorID == "" {
		return domain.EarningsSummary{}, domain.ErrAccountNotFound
	}

	return uc.earningRepo.Summarize(ctx, creatorID)
}
