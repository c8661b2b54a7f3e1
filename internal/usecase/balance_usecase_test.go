package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
	"github.com/starclip/wallet/internal/usecase/mocks"
)

func newBalanceUseCase(walletRepo *mocks.MockWalletRepository, withdrawalRepo *mocks.MockWithdrawalRepository) *usecase.BalanceUseCase {
	return usecase.NewBalanceUseCase(walletRepo, withdrawalRepo, nil, nil, nil)
}

func TestBalanceUseCase_AvailableForWithdrawal_PrimaryPreferred(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	withdrawalRepo := mocks.NewMockWithdrawalRepository()

	// Primary answers 175 while the fallback inputs would say 200. The
	// primary must win even though both succeed.
	walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.NewFromInt(175), nil
	}
	walletRepo.SetBalance("creator-1", decimal.NewFromInt(250))
	withdrawalRepo.Create(context.Background(), nil, &domain.WithdrawalRequest{
		ID:        "w-1",
		CreatorID: "creator-1",
		Amount:    decimal.NewFromInt(50),
		Status:    domain.WithdrawalStatusPending,
	})

	uc := newBalanceUseCase(walletRepo, withdrawalRepo)

	amount, source, err := uc.AvailableForWithdrawal(context.Background(), "creator-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != usecase.SourceLedger {
		t.Errorf("expected source %q, got %q", usecase.SourceLedger, source)
	}
	if !amount.Equal(decimal.NewFromInt(175)) {
		t.Errorf("expected 175, got %s", amount)
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_PrimarySlowerStillWins(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	withdrawalRepo := mocks.NewMockWithdrawalRepository()

	walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		time.Sleep(20 * time.Millisecond)
		return decimal.NewFromInt(100), nil
	}
	walletRepo.SetBalance("creator-1", decimal.NewFromInt(500))

	uc := newBalanceUseCase(walletRepo, withdrawalRepo)

	amount, source, err := uc.AvailableForWithdrawal(context.Background(), "creator-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != usecase.SourceLedger {
		t.Errorf("fast fallback pre-empted slow primary: source=%q", source)
	}
	if !amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100, got %s", amount)
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_FallbackOnPrimaryFailure(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	withdrawalRepo := mocks.NewMockWithdrawalRepository()

	walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("function does not exist")
	}
	walletRepo.SetBalance("creator-1", decimal.NewFromInt(250))
	withdrawalRepo.Create(context.Background(), nil, &domain.WithdrawalRequest{
		ID:        "w-1",
		CreatorID: "creator-1",
		Amount:    decimal.NewFromInt(30),
		Status:    domain.WithdrawalStatusPending,
	})
	withdrawalRepo.Create(context.Background(), nil, &domain.WithdrawalRequest{
		ID:        "w-2",
		CreatorID: "creator-1",
		Amount:    decimal.NewFromInt(20),
		Status:    domain.WithdrawalStatusProcessing,
	})
	withdrawalRepo.Create(context.Background(), nil, &domain.WithdrawalRequest{
		ID:        "w-3",
		CreatorID: "creator-1",
		Amount:    decimal.NewFromInt(999),
		Status:    domain.WithdrawalStatusCompleted,
	})

	uc := newBalanceUseCase(walletRepo, withdrawalRepo)

	amount, source, err := uc.AvailableForWithdrawal(context.Background(), "creator-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != usecase.SourceFallback {
		t.Errorf("expected source %q, got %q", usecase.SourceFallback, source)
	}
	// 250 - (30 pending + 20 processing); completed requests hold nothing.
	if !amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected 200, got %s", amount)
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_BothPathsFail(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	withdrawalRepo := mocks.NewMockWithdrawalRepository()

	walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("primary down")
	}
	walletRepo.GetBalanceFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("replica down")
	}

	uc := newBalanceUseCase(walletRepo, withdrawalRepo)

	_, _, err := uc.AvailableForWithdrawal(context.Background(), "creator-1")
	if !errors.Is(err, domain.ErrReconciliationUnavailable) {
		t.Fatalf("expected ErrReconciliationUnavailable, got %v", err)
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_UnknownAccount(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	withdrawalRepo := mocks.NewMockWithdrawalRepository()

	// The primary reports the account missing; the fallback happens to
	// answer anyway. Not-found must win over a fallback value.
	walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	walletRepo.GetBalanceFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.NewFromInt(50), nil
	}

	uc := newBalanceUseCase(walletRepo, withdrawalRepo)

	_, _, err := uc.AvailableForWithdrawal(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_EmptyUserID(t *testing.T) {
	uc := newBalanceUseCase(mocks.NewMockWalletRepository(), mocks.NewMockWithdrawalRepository())

	_, _, err := uc.AvailableForWithdrawal(context.Background(), "")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_NeverNegative(t *testing.T) {
	tests := []struct {
		name    string
		primary decimal.Decimal
	}{
		{name: "negative primary clamped", primary: decimal.NewFromInt(-25)},
		{name: "zero stays zero", primary: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walletRepo := mocks.NewMockWalletRepository()
			walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
				return tt.primary, nil
			}
			walletRepo.SetBalance("creator-1", decimal.Zero)

			uc := newBalanceUseCase(walletRepo, mocks.NewMockWithdrawalRepository())

			amount, _, err := uc.AvailableForWithdrawal(context.Background(), "creator-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if amount.IsNegative() {
				t.Errorf("resolved amount is negative: %s", amount)
			}
			if !amount.Equal(decimal.Zero) && tt.primary.IsNegative() {
				t.Errorf("expected clamp to zero, got %s", amount)
			}
		})
	}
}

func TestBalanceUseCase_AvailableForWithdrawal_FallbackNegativeClamped(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	withdrawalRepo := mocks.NewMockWithdrawalRepository()

	walletRepo.AvailableForWithdrawalFunc = func(ctx context.Context, userID string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("primary down")
	}
	walletRepo.SetBalance("creator-1", decimal.NewFromInt(40))
	withdrawalRepo.Create(context.Background(), nil, &domain.WithdrawalRequest{
		ID:        "w-1",
		CreatorID: "creator-1",
		Amount:    decimal.NewFromInt(60),
		Status:    domain.WithdrawalStatusPending,
	})

	uc := newBalanceUseCase(walletRepo, withdrawalRepo)

	amount, source, err := uc.AvailableForWithdrawal(context.Background(), "creator-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != usecase.SourceFallback {
		t.Errorf("expected fallback source, got %q", source)
	}
	if !amount.Equal(decimal.Zero) {
		t.Errorf("expected 0, got %s", amount)
	}
}

func TestBalanceUseCase_CachedAvailable(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	walletRepo.SetBalance("creator-1", decimal.NewFromInt(120))
	cache := mocks.NewMockCache()

	uc := usecase.NewBalanceUseCase(walletRepo, mocks.NewMockWithdrawalRepository(), cache, nil, nil)

	if _, ok := uc.CachedAvailable(context.Background(), "creator-1"); ok {
		t.Fatal("expected cache miss before first resolution")
	}

	if _, _, err := uc.AvailableForWithdrawal(context.Background(), "creator-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, ok := uc.CachedAvailable(context.Background(), "creator-1")
	if !ok {
		t.Fatal("expected cached value after resolution")
	}
	if !cached.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected 120, got %s", cached)
	}
}
