package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
)

// WalletRepository implements usecase.WalletRepository. The ledger entry
// points are stored functions owned by the database; balance arithmetic
// never happens in Go.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// GetBalance reads the raw wallet balance.
func (r *WalletRepository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT wallet_balance FROM users WHERE id = $1`

	var balance pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// AvailableForWithdrawal invokes the ledger's authoritative computation.
// A NULL result means the account is unknown to the function.
func (r *WalletRepository) AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT get_available_withdrawal_amount($1)`

	var available pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, userID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}

		return decimal.Zero, err
	}

	if !available.Valid {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	return numericToDecimal(available), nil
}

// AdjustBalance applies an admin adjustment through the ledger entry point
// and returns the new balance. The function raises when the adjustment
// would drive the balance negative.
func (r *WalletRepository) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal, reason string) (decimal.Decimal, error) {
	query := `SELECT admin_adjust_wallet_balance($1, $2, $3)`

	var balance pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, userID, decimalToNumeric(delta), reason).Scan(&balance)
	if err != nil {
		return decimal.Zero, mapAdjustError(err)
	}

	if !balance.Valid {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	return numericToDecimal(balance), nil
}

func mapAdjustError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "P0001" {
		if strings.Contains(pgErr.Message, "negative") {
			return domain.ErrNegativeBalanceNotAllowed
		}
		if strings.Contains(pgErr.Message, "not found") {
			return domain.ErrAccountNotFound
		}
	}

	return err
}
