package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starclip/wallet/internal/domain"
)

// EarningRepository implements usecase.EarningRepository.
type EarningRepository struct {
	pool *pgxpool.Pool
}

// NewEarningRepository creates a new EarningRepository.
func NewEarningRepository(pool *pgxpool.Pool) *EarningRepository {
	return &EarningRepository{pool: pool}
}

// ListByCreator lists a creator's earnings, newest first.
func (r *EarningRepository) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*domain.Earning, error) {
	query := `
		SELECT id, creator_id, request_id, amount, status, created_at
		FROM earnings
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, creatorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earnings []*domain.Earning
	for rows.Next() {
		var (
			earning domain.Earning
			amount  pgtype.Numeric
		)
		err := rows.Scan(
			&earning.ID,
			&earning.CreatorID,
			&earning.RequestID,
			&amount,
			&earning.Status,
			&earning.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		earning.Amount = numericToDecimal(amount)
		earnings = append(earnings, &earning)
	}

	return earnings, rows.Err()
}

// Summarize returns a creator's total and pending earnings in one query.
func (r *EarningRepository) Summarize(ctx context.Context, creatorID string) (domain.EarningsSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status IN ('pending', 'completed')), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0)
		FROM earnings
		WHERE creator_id = $1
	`

	var total, pending pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, creatorID).Scan(&total, &pending); err != nil {
		return domain.EarningsSummary{}, err
	}

	return domain.EarningsSummary{
		Total:   numericToDecimal(total),
		Pending: numericToDecimal(pending),
	}, nil
}
