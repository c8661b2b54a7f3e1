package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	postgresrepo "github.com/starclip/wallet/internal/adapter/repository/postgres"
	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
	"github.com/starclip/wallet/tests/testutil"
)

func newWithdrawalUseCase(testDB *testutil.TestDB) *usecase.WithdrawalUseCase {
	txManager := postgresrepo.NewTxManager(testDB.Pool)
	walletRepo := postgresrepo.NewWalletRepository(testDB.Pool)
	withdrawalRepo := postgresrepo.NewWithdrawalRepository(testDB.Pool)
	notificationRepo := postgresrepo.NewNotificationRepository(testDB.Pool)
	auditRepo := postgresrepo.NewAuditRepository(testDB.Pool)
	outboxRepo := postgresrepo.NewOutboxRepository(testDB.Pool)
	idGen := postgresrepo.NewULIDGenerator()

	balanceUC := usecase.NewBalanceUseCase(walletRepo, withdrawalRepo, nil, nil, nil)

	return usecase.NewWithdrawalUseCase(txManager, withdrawalRepo, balanceUC, notificationRepo, auditRepo, outboxRepo, idGen, nil, nil)
}

func TestWithdrawalLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	withdrawalUC := newWithdrawalUseCase(testDB)
	creator := testDB.CreateUser(ctx, domain.RoleCreator, decimal.NewFromInt(300))

	request, err := withdrawalUC.SubmitWithdrawal(ctx, usecase.SubmitWithdrawalInput{
		CreatorID:   creator.ID,
		Amount:      decimal.NewFromInt(120),
		PayPalEmail: "payout@example.com",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if request.Status != domain.WithdrawalStatusPending {
		t.Fatalf("expected pending, got %s", request.Status)
	}

	// The open request holds its amount against availability.
	walletRepo := postgresrepo.NewWalletRepository(testDB.Pool)
	available, err := walletRepo.AvailableForWithdrawal(ctx, creator.ID)
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected 180 available, got %s", available)
	}

	approved, err := withdrawalUC.ApproveWithdrawal(ctx, request.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != domain.WithdrawalStatusCompleted {
		t.Fatalf("expected completed, got %s", approved.Status)
	}
	if approved.ProcessedAt == nil {
		t.Error("expected processed_at to be set")
	}

	// Completion decremented the ledger balance.
	balance, err := walletRepo.GetBalance(ctx, creator.ID)
	if err != nil {
		t.Fatalf("balance check failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected balance 180, got %s", balance)
	}
}

func TestWithdrawalSingleOpenRequest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	withdrawalUC := newWithdrawalUseCase(testDB)
	creator := testDB.CreateUser(ctx, domain.RoleCreator, decimal.NewFromInt(300))

	_, err := withdrawalUC.SubmitWithdrawal(ctx, usecase.SubmitWithdrawalInput{
		CreatorID:   creator.ID,
		Amount:      decimal.NewFromInt(50),
		PayPalEmail: "payout@example.com",
	})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err = withdrawalUC.SubmitWithdrawal(ctx, usecase.SubmitWithdrawalInput{
		CreatorID:   creator.ID,
		Amount:      decimal.NewFromInt(50),
		PayPalEmail: "payout@example.com",
	})
	if !errors.Is(err, domain.ErrPendingWithdrawalOpen) {
		t.Fatalf("expected ErrPendingWithdrawalOpen, got %v", err)
	}
}

func TestWithdrawalExceedsAvailable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	withdrawalUC := newWithdrawalUseCase(testDB)
	creator := testDB.CreateUser(ctx, domain.RoleCreator, decimal.NewFromInt(100))

	_, err := withdrawalUC.SubmitWithdrawal(ctx, usecase.SubmitWithdrawalInput{
		CreatorID:   creator.ID,
		Amount:      decimal.NewFromInt(150),
		PayPalEmail: "payout@example.com",
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestWithdrawalFailReleasesHold(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	withdrawalUC := newWithdrawalUseCase(testDB)
	creator := testDB.CreateUser(ctx, domain.RoleCreator, decimal.NewFromInt(100))

	request, err := withdrawalUC.SubmitWithdrawal(ctx, usecase.SubmitWithdrawalInput{
		CreatorID:   creator.ID,
		Amount:      decimal.NewFromInt(80),
		PayPalEmail: "payout@example.com",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := withdrawalUC.FailWithdrawal(ctx, request.ID, "paypal account closed"); err != nil {
		t.Fatalf("fail failed: %v", err)
	}

	// The failed request no longer holds funds and the balance is intact.
	walletRepo := postgresrepo.NewWalletRepository(testDB.Pool)
	available, err := walletRepo.AvailableForWithdrawal(ctx, creator.ID)
	if err != nil {
		t.Fatalf("availability check failed: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100 available, got %s", available)
	}
}
