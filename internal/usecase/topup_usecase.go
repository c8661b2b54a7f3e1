package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
)

// TopUpUseCase orchestrates wallet top-ups through the payment gateway.
// Crediting the wallet is one guarded ledger operation; annotating the
// transaction with the gateway reference and writing the notification row
// are secondary effects whose failure must never read as a payment failure.
type TopUpUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	notifRepo       NotificationRepository
	outboxRepo      OutboxRepository
	gateway         PaymentGateway
	idGen           IDGenerator
	metrics         *metrics.Metrics
	logger          *slog.Logger
	currency        string
}

// NewTopUpUseCase creates a new TopUpUseCase.
func NewTopUpUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	notifRepo NotificationRepository,
	outboxRepo OutboxRepository,
	gateway PaymentGateway,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger *slog.Logger,
	currency string,
) *TopUpUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if currency == "" {
		currency = "ILS"
	}

	return &TopUpUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		notifRepo:       notifRepo,
		outboxRepo:      outboxRepo,
		gateway:         gateway,
		idGen:           idGen,
		metrics:         m,
		logger:          logger,
		currency:        currency,
	}
}

// StartTopUpInput represents input for starting a top-up.
type StartTopUpInput struct {
	UserID string
	Amount decimal.Decimal
}

// StartTopUpResult pairs the pending transaction with the gateway order.
type StartTopUpResult struct {
	Transaction *domain.WalletTransaction
	OrderID     string
}

// StartTopUp records a pending wallet transaction and creates the matching
// gateway order.
func (uc *TopUpUseCase) StartTopUp(ctx context.Context, input StartTopUpInput) (*StartTopUpResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	transaction := &domain.WalletTransaction{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		Type:          domain.TransactionTypeTopUp,
		Amount:        input.Amount,
		PaymentMethod: "paypal",
		PaymentStatus: domain.PaymentStatusPending,
		Description:   "Wallet top-up",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.transactionRepo.Create(txCtx, tx, transaction); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	orderID, err := uc.gateway.CreateOrder(ctx, input.Amount, uc.currency)
	if err != nil {
		return nil, err
	}

	return &StartTopUpResult{Transaction: transaction, OrderID: orderID}, nil
}

// CaptureTopUpInput represents input for capturing a top-up.
type CaptureTopUpInput struct {
	UserID        string
	OrderID       string
	TransactionID string
}

// CaptureTopUpResult reports the outcome of a capture.
type CaptureTopUpResult struct {
	Amount           decimal.Decimal
	ReferenceID      string
	AlreadyProcessed bool
}

// CaptureTopUp captures the gateway order and credits the wallet. A
// transaction that is already completed short-circuits so a retried capture
// never double-credits.
func (uc *TopUpUseCase) CaptureTopUp(ctx context.Context, input CaptureTopUpInput) (*CaptureTopUpResult, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	if transaction.PaymentStatus == domain.PaymentStatusCompleted {
		uc.logger.InfoContext(ctx, "transaction already completed, skipping duplicate capture",
			slog.String("transaction_id", transaction.ID))

		reference := transaction.ReferenceID
		if reference == "" {
			reference = input.OrderID
		}

		return &CaptureTopUpResult{
			Amount:           transaction.Amount,
			ReferenceID:      reference,
			AlreadyProcessed: true,
		}, nil
	}

	capture, err := uc.gateway.CaptureOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if !capture.Completed() {
		return nil, domain.ErrCaptureNotCompleted
	}

	// Primary financial effect. Everything after this point is best-effort.
	if err := uc.transactionRepo.ProcessCapture(ctx, transaction.ID, domain.PaymentStatusCompleted); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TopUpsCaptured.Inc()
	}

	if err := uc.transactionRepo.SetReferenceID(ctx, transaction.ID, input.UserID, capture.OrderID); err != nil {
		uc.logger.WarnContext(ctx, "failed to set gateway reference id",
			slog.String("transaction_id", transaction.ID),
			slog.String("error", err.Error()))
	}

	uc.notifyPayment(ctx, input.UserID, capture.Amount, transaction.ID)
	uc.emitCaptured(ctx, transaction, capture)

	return &CaptureTopUpResult{
		Amount:      capture.Amount,
		ReferenceID: capture.OrderID,
	}, nil
}

// VerifyGateway checks gateway connectivity with the configured credentials.
func (uc *TopUpUseCase) VerifyGateway(ctx context.Context) error {
	return uc.gateway.Verify(ctx)
}

func (uc *TopUpUseCase) notifyPayment(ctx context.Context, userID string, amount decimal.Decimal, transactionID string) {
	if uc.notifRepo == nil {
		return
	}

	err := uc.notifRepo.Create(ctx, &domain.Notification{
		ID:         uc.idGen.Generate(),
		UserID:     userID,
		Title:      "Payment Successful",
		Message:    "Your wallet has been topped up with " + amount.StringFixed(2),
		Type:       domain.NotificationTypePayment,
		EntityID:   transactionID,
		EntityType: "transaction",
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to create payment notification",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}

func (uc *TopUpUseCase) emitCaptured(ctx context.Context, transaction *domain.WalletTransaction, capture *CaptureResult) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to begin outbox transaction", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transaction.ID,
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeWalletUpdated,
		Payload: map[string]any{
			"table":   domain.TableUsers,
			"kind":    string(domain.ChangeKindUpdate),
			"user_id": transaction.UserID,
			"row": map[string]any{
				"transaction_id": transaction.ID,
				"amount":         capture.Amount.String(),
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
