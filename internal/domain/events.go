package domain

import "time"

// Event types
const (
	EventTypeWalletUpdated       = "wallet.updated"
	EventTypeWithdrawalCreated   = "withdrawal.created"
	EventTypeWithdrawalUpdated   = "withdrawal.updated"
	EventTypeTransactionCaptured = "transaction.captured"
	EventTypeEarningRecorded     = "earning.recorded"
)

// Tables carried in change events, matching the ledger store's table names.
const (
	TableUsers              = "users"
	TableWithdrawalRequests = "withdrawal_requests"
	TableWalletTransactions = "wallet_transactions"
	TableEarnings           = "earnings"
)

// ChangeKind mirrors the notifier's row-level operation.
type ChangeKind string

const (
	ChangeKindInsert ChangeKind = "INSERT"
	ChangeKindUpdate ChangeKind = "UPDATE"
	ChangeKindDelete ChangeKind = "DELETE"
)

// ChangeEvent is a push notification that rows matching a user filter may
// have changed. Delivery is eventual: events can arrive out of order, more
// than once, or late, so consumers treat them as "re-verify", never as
// "the state is now exactly X".
type ChangeEvent struct {
	Table      string         `json:"table"`
	Kind       ChangeKind     `json:"kind"`
	UserID     string         `json:"user_id"`
	Row        map[string]any `json:"row,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Status extracts the row's status field, if present.
func (e *ChangeEvent) Status() string {
	if e.Row == nil {
		return ""
	}

	s, _ := e.Row["status"].(string)

	return s
}

// OutboxEvent represents an event to be published to the change feed.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// Aggregate types
const (
	AggregateTypeWallet      = "wallet"
	AggregateTypeWithdrawal  = "withdrawal"
	AggregateTypeTransaction = "transaction"
	AggregateTypeEarning     = "earning"
)
