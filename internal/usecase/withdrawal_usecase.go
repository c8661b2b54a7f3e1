package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
)

// WithdrawalUseCase handles withdrawal request business logic. Completion is
// delegated to the ledger entry point that atomically decrements the wallet
// balance; this usecase owns request validation, eligibility and the change
// feed around it.
type WithdrawalUseCase struct {
	txManager      TransactionManager
	withdrawalRepo WithdrawalRepository
	balanceUC      *BalanceUseCase
	notifRepo      NotificationRepository
	auditRepo      AuditRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	withdrawalRepo WithdrawalRepository,
	balanceUC *BalanceUseCase,
	notifRepo NotificationRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger *slog.Logger,
) *WithdrawalUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &WithdrawalUseCase{
		txManager:      txManager,
		withdrawalRepo: withdrawalRepo,
		balanceUC:      balanceUC,
		notifRepo:      notifRepo,
		auditRepo:      auditRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
		metrics:        m,
		logger:         logger,
	}
}

// SubmitWithdrawalInput represents input for submitting a withdrawal request.
type SubmitWithdrawalInput struct {
	CreatorID   string
	Amount      decimal.Decimal
	PayPalEmail string
}

// SubmitWithdrawal creates a pending withdrawal request. The requested
// amount is validated against the resolved available amount; a creator can
// hold at most one open request at a time.
func (uc *WithdrawalUseCase) SubmitWithdrawal(ctx context.Context, input SubmitWithdrawalInput) (*domain.WithdrawalRequest, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.PayPalEmail); err != nil {
		return nil, err
	}

	pending, err := uc.withdrawalRepo.ListPending(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		return nil, domain.ErrPendingWithdrawalOpen
	}

	available, _, err := uc.balanceUC.AvailableForWithdrawal(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}

	if input.Amount.GreaterThan(available) {
		return nil, domain.ErrInsufficientFunds
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	request := &domain.WithdrawalRequest{
		ID:          uc.idGen.Generate(),
		CreatorID:   input.CreatorID,
		Amount:      input.Amount,
		Status:      domain.WithdrawalStatusPending,
		PayPalEmail: input.PayPalEmail,
		CreatedAt:   now,
	}

	if err := uc.withdrawalRepo.Create(txCtx, tx, request); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   request.ID,
		AggregateType: domain.AggregateTypeWithdrawal,
		EventType:     domain.EventTypeWithdrawalCreated,
		Payload: map[string]any{
			"table":   domain.TableWithdrawalRequests,
			"kind":    string(domain.ChangeKindInsert),
			"user_id": request.CreatorID,
			"row": map[string]any{
				"id":     request.ID,
				"amount": request.Amount.String(),
				"status": string(request.Status),
			},
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsSubmitted.Inc()
	}

	uc.logger.InfoContext(ctx, "withdrawal request submitted",
		slog.String("request_id", request.ID),
		slog.String("creator_id", request.CreatorID),
		slog.String("amount", request.Amount.String()))

	return request, nil
}

// ApproveWithdrawal completes a withdrawal request via the ledger entry
// point. The balance decrement and status transition are one atomic ledger
// operation; notification, audit and the change-feed event are secondary
// effects and best-effort.
func (uc *WithdrawalUseCase) ApproveWithdrawal(ctx context.Context, id string) (*domain.WithdrawalRequest, error) {
	request, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.Status.HoldsFunds() {
		return nil, domain.ErrWithdrawalNotPending
	}

	now := time.Now().UTC()
	if err := uc.withdrawalRepo.Complete(ctx, id, now); err != nil {
		uc.audit(ctx, domain.AuditActionWithdrawalApprove, request, domain.AuditStatusError, err)
		return nil, err
	}

	request.Status = domain.WithdrawalStatusCompleted
	request.ProcessedAt = &now

	if uc.metrics != nil {
		uc.metrics.WithdrawalsApproved.Inc()
	}

	uc.emitWithdrawalUpdated(ctx, request)
	uc.notify(ctx, request.CreatorID, "Withdrawal approved",
		"Your withdrawal request of "+request.Amount.StringFixed(2)+" has been approved",
		request.ID)
	uc.audit(ctx, domain.AuditActionWithdrawalApprove, request, domain.AuditStatusSuccess, nil)

	return request, nil
}

// FailWithdrawal marks a request failed, releasing its hold on the
// available amount.
func (uc *WithdrawalUseCase) FailWithdrawal(ctx context.Context, id, reason string) (*domain.WithdrawalRequest, error) {
	request, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.Status.HoldsFunds() {
		return nil, domain.ErrWithdrawalNotPending
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	if err := uc.withdrawalRepo.UpdateStatus(txCtx, tx, id, domain.WithdrawalStatusFailed, &now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	request.Status = domain.WithdrawalStatusFailed
	request.ProcessedAt = &now

	uc.emitWithdrawalUpdated(ctx, request)
	uc.notify(ctx, request.CreatorID, "Withdrawal failed",
		"Your withdrawal request could not be processed: "+reason, request.ID)
	uc.audit(ctx, domain.AuditActionWithdrawalFail, request, domain.AuditStatusSuccess, nil)

	return request, nil
}

// ListWithdrawalsInput represents input for listing withdrawal requests.
type ListWithdrawalsInput struct {
	CreatorID string
	Status    domain.WithdrawalStatus
	Limit     int
	Offset    int
}

// ListWithdrawals lists a creator's withdrawal requests.
func (uc *WithdrawalUseCase) ListWithdrawals(ctx context.Context, input ListWithdrawalsInput) ([]*domain.WithdrawalRequest, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.withdrawalRepo.ListByCreator(ctx, input.CreatorID, input.Status, limit, offset)
}

// emitWithdrawalUpdated writes the change-feed event for a status
// transition. The outbox write happens outside the ledger operation, so it
// is best-effort; the engine re-verifies on every trigger anyway.
func (uc *WithdrawalUseCase) emitWithdrawalUpdated(ctx context.Context, request *domain.WithdrawalRequest) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to begin outbox transaction", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   request.ID,
		AggregateType: domain.AggregateTypeWithdrawal,
		EventType:     domain.EventTypeWithdrawalUpdated,
		Payload: map[string]any{
			"table":   domain.TableWithdrawalRequests,
			"kind":    string(domain.ChangeKindUpdate),
			"user_id": request.CreatorID,
			"row": map[string]any{
				"id":     request.ID,
				"amount": request.Amount.String(),
				"status": string(request.Status),
			},
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		uc.logger.ErrorContext(ctx, "failed to write withdrawal change event", slog.String("error", err.Error()))
		return
	}

	if err := tx.Commit(ctx); err != nil {
		uc.logger.ErrorContext(ctx, "failed to commit withdrawal change event", slog.String("error", err.Error()))
	}
}

func (uc *WithdrawalUseCase) notify(ctx context.Context, userID, title, message, entityID string) {
	if uc.notifRepo == nil {
		return
	}

	err := uc.notifRepo.Create(ctx, &domain.Notification{
		ID:         uc.idGen.Generate(),
		UserID:     userID,
		Title:      title,
		Message:    message,
		Type:       domain.NotificationTypeWithdrawal,
		EntityID:   entityID,
		EntityType: "withdrawal_request",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to create withdrawal notification",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}

func (uc *WithdrawalUseCase) audit(ctx context.Context, action domain.AuditAction, request *domain.WithdrawalRequest, status domain.AuditStatus, actionErr error) {
	if uc.auditRepo == nil {
		return
	}

	actorID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		actorID = user.ID
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actorID,
		Action:       string(action),
		ResourceType: "withdrawal_request",
		ResourceID:   request.ID,
		AfterState:   domain.MarshalState(request),
		Status:       string(status),
		CreatedAt:    time.Now().UTC(),
	}
	if actionErr != nil {
		log.ErrorMessage = actionErr.Error()
	}

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.WarnContext(ctx, "failed to write audit log", slog.String("error", err.Error()))
	}
}
