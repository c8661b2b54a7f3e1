package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
)

// WalletRepository defines read access to the ledger's balance state and the
// ledger-owned mutation entry points. Balance arithmetic is never performed
// here; the stored entry points are atomic on the ledger side.
type WalletRepository interface {
	// GetBalance reads the raw wallet balance for a user.
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	// AvailableForWithdrawal invokes the ledger's authoritative computation
	// in a single round trip.
	AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, error)
	// AdjustBalance applies an admin adjustment and returns the new balance.
	AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal, reason string) (decimal.Decimal, error)
}

// WithdrawalRepository defines data access for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx Transaction, request *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id string) (*domain.WithdrawalRequest, error)
	ListByCreator(ctx context.Context, creatorID string, status domain.WithdrawalStatus, limit, offset int) ([]*domain.WithdrawalRequest, error)
	ListPending(ctx context.Context, creatorID string) ([]*domain.WithdrawalRequest, error)
	// Complete invokes the ledger entry point that marks the request
	// completed and atomically decrements the wallet balance.
	Complete(ctx context.Context, id string, processedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.WithdrawalStatus, processedAt *time.Time) error
}

// TransactionRepository defines data access for wallet transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.WalletTransaction) error
	GetByID(ctx context.Context, id, userID string) (*domain.WalletTransaction, error)
	// ProcessCapture invokes the ledger entry point that marks the
	// transaction completed and credits the wallet, guarded against double
	// processing on the ledger side.
	ProcessCapture(ctx context.Context, transactionID string, status domain.PaymentStatus) error
	SetReferenceID(ctx context.Context, id, userID, referenceID string) error
}

// EarningRepository defines data access for creator earnings.
type EarningRepository interface {
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*domain.Earning, error)
	Summarize(ctx context.Context, creatorID string) (domain.EarningsSummary, error)
}

// NotificationRepository defines data access for notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
}

// UserRepository defines data access for marketplace users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// OutboxRepository defines data access for change-feed outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// PaymentGateway proxies the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (orderID string, err error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
	// Verify checks that the configured credentials can obtain a token.
	Verify(ctx context.Context) error
}

// CaptureResult is the gateway's view of a captured order.
type CaptureResult struct {
	OrderID   string
	CaptureID string
	Status    string
	Amount    decimal.Decimal
	Currency  string
}

// Completed reports whether the capture reached its terminal success state.
func (r *CaptureResult) Completed() bool {
	return r.Status == "COMPLETED"
}

// ChangeNotifier delivers change events for rows matching a user filter.
// Delivery ordering relative to the causing mutation is not guaranteed.
type ChangeNotifier interface {
	Subscribe(ctx context.Context, table, userID string) (ChangeSubscription, error)
}

// ChangeSubscription is a cancellable change-event stream.
type ChangeSubscription interface {
	Events() <-chan domain.ChangeEvent
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
