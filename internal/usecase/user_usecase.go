package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
)

// UserUseCase handles user lookups and admin balance adjustments.
type UserUseCase struct {
	txManager  TransactionManager
	userRepo   UserRepository
	walletRepo WalletRepository
	auditRepo  AuditRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	logger     *slog.Logger
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	walletRepo WalletRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	logger *slog.Logger,
) *UserUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		logger:     logger,
	}
}

// GetUser fetches a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrAccountNotFound
	}

	return uc.userRepo.GetByID(ctx, id)
}

// AdjustBalanceInput represents input for an admin balance adjustment.
type AdjustBalanceInput struct {
	UserID string
	Delta  decimal.Decimal
	Reason string
}

// AdjustBalance applies an admin adjustment through the ledger entry point
// and returns the new balance. The ledger rejects adjustments that would
// drive the balance negative.
func (uc *UserUseCase) AdjustBalance(ctx context.Context, input AdjustBalanceInput) (decimal.Decimal, error) {
	if input.UserID == "" {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	if input.Delta.IsZero() {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return decimal.Zero, err
	}

	newBalance, err := uc.walletRepo.AdjustBalance(ctx, input.UserID, input.Delta, input.Reason)
	if err != nil {
		uc.auditAdjust(ctx, user, input, decimal.Zero, domain.AuditStatusError, err)
		return decimal.Zero, err
	}

	uc.auditAdjust(ctx, user, input, newBalance, domain.AuditStatusSuccess, nil)
	uc.emitWalletUpdated(ctx, input.UserID, newBalance)

	return newBalance, nil
}

func (uc *UserUseCase) auditAdjust(ctx context.Context, user *domain.User, input AdjustBalanceInput, newBalance decimal.Decimal, status domain.AuditStatus, actionErr error) {
	if uc.auditRepo == nil {
		return
	}

	actorID := "system"
	if actor, ok := domain.UserFromContext(ctx); ok {
		actorID = actor.ID
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actorID,
		Action:       string(domain.AuditActionBalanceAdjust),
		ResourceType: "wallet",
		ResourceID:   input.UserID,
		BeforeState:  domain.JSON{"balance": user.WalletBalance.String()},
		AfterState: domain.JSON{
			"balance": newBalance.String(),
			"delta":   input.Delta.String(),
			"reason":  input.Reason,
		},
		Status:    string(status),
		CreatedAt: time.Now().UTC(),
	}
	if actionErr != nil {
		log.ErrorMessage = actionErr.Error()
	}

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.WarnContext(ctx, "failed to write audit log", slog.String("error", err.Error()))
	}
}

func (uc *UserUseCase) emitWalletUpdated(ctx context.Context, userID string, balance decimal.Decimal) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to begin outbox transaction", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   userID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeWalletUpdated,
		Payload: map[string]any{
			"table":   domain.TableUsers,
			"kind":    string(domain.ChangeKindUpdate),
			"user_id": userID,
			"row": map[string]any{
				"wallet_balance": balance.String(),
			},
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		uc.logger.WarnContext(ctx, "failed to write wallet change event", slog.String("error", err.Error()))
		return
	}

	if err := tx.Commit(ctx); err != nil {
		uc.logger.WarnContext(ctx, "failed to commit wallet change event", slog.String("error", err.Error()))
	}
}
