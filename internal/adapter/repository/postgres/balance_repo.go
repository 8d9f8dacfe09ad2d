package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	pool querier
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return newBalanceRepositoryWithPool(pool)
}

func newBalanceRepositoryWithPool(pool querier) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

func (r *BalanceRepository) db(tx usecase.Transaction) querier {
	if tx == nil {
		return r.pool
	}

	return tx.(*Tx).PgxTx()
}

// Get retrieves the owner's running balance.
func (r *BalanceRepository) Get(ctx context.Context, ownerID string) (*domain.Balance, error) {
	var (
		b         domain.Balance
		amount    pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT owner_id, balance, updated_at FROM balances WHERE owner_id = $1`,
		ownerID,
	).Scan(&b.OwnerID, &amount, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}

		return nil, err
	}

	b.Amount = numericToDecimal(amount)
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// Increment applies a delta as a single store-level upsert. The arithmetic
// happens inside Postgres, so concurrent increments for the same owner
// serialize on the row and no delta is ever lost.
func (r *BalanceRepository) Increment(ctx context.Context, tx usecase.Transaction, ownerID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	query := `
		INSERT INTO balances (owner_id, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE SET
			balance = balances.balance + EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at
		RETURNING balance
	`

	var balance pgtype.Numeric

	err := r.db(tx).QueryRow(ctx, query,
		ownerID,
		decimalToNumeric(delta),
		timeToPgTimestamptz(updatedAt),
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// Set overwrites the stored balance with a recomputed value.
func (r *BalanceRepository) Set(ctx context.Context, ownerID string, amount decimal.Decimal, updatedAt time.Time) error {
	query := `
		INSERT INTO balances (owner_id, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, ownerID, decimalToNumeric(amount), timeToPgTimestamptz(updatedAt))

	return err
}
