package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(pool *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Create inserts a withdrawal request within a transaction.
func (r *WithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, request *domain.WithdrawalRequest) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO withdrawal_requests (id, creator_id, amount, status, paypal_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		request.ID,
		request.CreatorID,
		decimalToNumeric(request.Amount),
		request.Status,
		request.PayPalEmail,
		timeToPgTimestamptz(request.CreatedAt),
	)

	return err
}

// GetByID retrieves a withdrawal request by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.WithdrawalRequest, error) {
	query := withdrawalSelect + ` WHERE id = $1`

	request, err := scanWithdrawal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWithdrawalNotFound
		}

		return nil, err
	}

	return request, nil
}

// ListByCreator lists a creator's withdrawal requests, newest first.
func (r *WithdrawalRepository) ListByCreator(ctx context.Context, creatorID string, status domain.WithdrawalStatus, limit, offset int) ([]*domain.WithdrawalRequest, error) {
	query := withdrawalSelect + ` WHERE creator_id = $1`
	args := []any{creatorID}

	if status != "" {
		query += ` AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// ListPending lists requests still holding funds for a creator.
func (r *WithdrawalRepository) ListPending(ctx context.Context, creatorID string) ([]*domain.WithdrawalRequest, error) {
	query := withdrawalSelect + ` WHERE creator_id = $1 AND status IN ('pending', 'processing') ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWithdrawals(rows)
}

// Complete invokes the ledger entry point that marks the request completed
// and atomically decrements the wallet balance. Retried on serialization
// conflicts since approvals race with concurrent wallet writes.
func (r *WithdrawalRepository) Complete(ctx context.Context, id string, processedAt time.Time) error {
	query := `SELECT complete_withdrawal_request($1, $2)`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query, id, timeToPgTimestamptz(processedAt))
		if err != nil {
			return mapCompleteError(err)
		}

		return nil
	})
}

// UpdateStatus transitions a request's status within a transaction.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.WithdrawalStatus, processedAt *time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE withdrawal_requests SET status = $2, processed_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, status, processedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWithdrawalNotFound
	}

	return nil
}

const withdrawalSelect = `
	SELECT id, creator_id, amount, status, paypal_email, created_at, processed_at
	FROM withdrawal_requests
`

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var (
		request     domain.WithdrawalRequest
		amount      pgtype.Numeric
		processedAt *time.Time
	)

	err := row.Scan(
		&request.ID,
		&request.CreatorID,
		&amount,
		&request.Status,
		&request.PayPalEmail,
		&request.CreatedAt,
		&processedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Amount = numericToDecimal(amount)
	request.ProcessedAt = processedAt

	return &request, nil
}

func collectWithdrawals(rows pgx.Rows) ([]*domain.WithdrawalRequest, error) {
	defer rows.Close()

	var requests []*domain.WithdrawalRequest
	for rows.Next() {
		request, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

func mapCompleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "P0001" {
		switch {
		case strings.Contains(pgErr.Message, "not found"):
			return domain.ErrWithdrawalNotFound
		case strings.Contains(pgErr.Message, "not pending"):
			return domain.ErrWithdrawalNotPending
		case strings.Contains(pgErr.Message, "insufficient"):
			return domain.ErrInsufficientFunds
		}
	}

	return err
}
