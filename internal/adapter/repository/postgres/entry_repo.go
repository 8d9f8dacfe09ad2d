package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

const entryColumns = `id, owner_id, entry_date, entry_type, category, amount,
	remaining_amount, settled, payment_method, party_id, is_settlement,
	settles_entry_id, notes, created_at, updated_at`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repository
// methods can run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool querier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepositoryWithPool(pool)
}

func newEntryRepositoryWithPool(pool querier) *EntryRepository {
	return &EntryRepository{pool: pool}
}

func (r *EntryRepository) db(tx usecase.Transaction) querier {
	if tx == nil {
		return r.pool
	}

	return tx.(*Tx).PgxTx()
}

// Create inserts a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db(tx).Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.EntryDate,
		string(entry.Type),
		string(entry.Category),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.RemainingAmount),
		entry.Settled,
		string(entry.PaymentMethod),
		entry.PartyID,
		entry.IsSettlement,
		entry.SettlesEntryID,
		entry.Notes,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)

	return err
}

// GetByID retrieves an entry by ID, scoped to the owner.
func (r *EntryRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND owner_id = $2`

	return r.scanOne(r.pool.QueryRow(ctx, query, id, ownerID))
}

// GetByIDForUpdate retrieves an entry with a FOR UPDATE lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 AND owner_id = $2 FOR UPDATE`

	return r.scanOne(r.db(tx).QueryRow(ctx, query, id, ownerID))
}

// Update rewrites every mutable column of an entry.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		UPDATE entries SET
			entry_date = $3, entry_type = $4, category = $5, amount = $6,
			remaining_amount = $7, settled = $8, payment_method = $9,
			party_id = $10, notes = $11, updated_at = $12
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.db(tx).Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.EntryDate,
		string(entry.Type),
		string(entry.Category),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.RemainingAmount),
		entry.Settled,
		string(entry.PaymentMethod),
		entry.PartyID,
		entry.Notes,
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) error {
	tag, err := r.db(tx).Exec(ctx,
		`DELETE FROM entries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List retrieves an owner's entries, newest entry date first, with an
// optional [From, To) date window and pagination.
func (r *EntryRepository) List(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}

	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND entry_date < $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY entry_date DESC, created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ListSettlements retrieves the settlement companions of an obligation,
// locked for update.
func (r *EntryRepository) ListSettlements(ctx context.Context, tx usecase.Transaction, settlesEntryID, ownerID string) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE settles_entry_id = $1 AND owner_id = $2
		ORDER BY created_at
		FOR UPDATE`

	rows, err := r.db(tx).Query(ctx, query, settlesEntryID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ClearParty nulls the party reference on every entry pointing at the
// given party.
func (r *EntryRepository) ClearParty(ctx context.Context, tx usecase.Transaction, partyID, ownerID string) error {
	_, err := r.db(tx).Exec(ctx,
		`UPDATE entries SET party_id = NULL WHERE party_id = $1 AND owner_id = $2`,
		partyID, ownerID)

	return err
}

func (r *EntryRepository) scanOne(row pgx.Row) (*domain.Entry, error) {
	var (
		e                    domain.Entry
		amount, remaining    pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.EntryDate,
		&e.Type,
		&e.Category,
		&amount,
		&remaining,
		&e.Settled,
		&e.PaymentMethod,
		&e.PartyID,
		&e.IsSettlement,
		&e.SettlesEntryID,
		&e.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	e.Amount = numericToDecimal(amount)
	e.RemainingAmount = numericToDecimal(remaining)
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

func (r *EntryRepository) scanMany(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry

	for rows.Next() {
		e, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
