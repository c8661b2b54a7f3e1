package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Create inserts a wallet transaction within a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.WalletTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO wallet_transactions (
			id, user_id, type, amount, payment_method, payment_status,
			description, reference_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Type,
		decimalToNumeric(transaction.Amount),
		transaction.PaymentMethod,
		transaction.PaymentStatus,
		transaction.Description,
		transaction.ReferenceID,
		timeToPgTimestamptz(transaction.CreatedAt),
		timeToPgTimestamptz(transaction.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction scoped to its owner.
func (r *TransactionRepository) GetByID(ctx context.Context, id, userID string) (*domain.WalletTransaction, error) {
	query := `
		SELECT id, user_id, type, amount, payment_method, payment_status,
		       description, reference_id, created_at, updated_at
		FROM wallet_transactions
		WHERE id = $1 AND user_id = $2
	`

	var (
		transaction domain.WalletTransaction
		amount      pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.Type,
		&amount,
		&transaction.PaymentMethod,
		&transaction.PaymentStatus,
		&transaction.Description,
		&transaction.ReferenceID,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	transaction.Amount = numericToDecimal(amount)

	return &transaction, nil
}

// ProcessCapture invokes the ledger entry point that marks the transaction
// completed and credits the wallet. The function is guarded on the ledger
// side: a transaction already completed is a no-op, so a retried capture
// never double-credits.
func (r *TransactionRepository) ProcessCapture(ctx context.Context, transactionID string, status domain.PaymentStatus) error {
	query := `SELECT process_paypal_transaction($1, $2)`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query, transactionID, status)
		if err != nil {
			return mapCaptureError(err)
		}

		return nil
	})
}

// SetReferenceID annotates a transaction with the gateway's order
// reference. Secondary to the capture itself.
func (r *TransactionRepository) SetReferenceID(ctx context.Context, id, userID, referenceID string) error {
	query := `
		UPDATE wallet_transactions
		SET reference_id = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID, referenceID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func mapCaptureError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "P0001" {
		if strings.Contains(pgErr.Message, "not found") {
			return domain.ErrTransactionNotFound
		}
	}

	return err
}
