package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	pool querier
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return newPartyRepositoryWithPool(pool)
}

func newPartyRepositoryWithPool(pool querier) *PartyRepository {
	return &PartyRepository{pool: pool}
}

// Create inserts a new party.
func (r *PartyRepository) Create(ctx context.Context, party *domain.Party) error {
	query := `
		INSERT INTO parties (id, owner_id, name, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		party.ID,
		party.OwnerID,
		party.Name,
		string(party.Kind),
		timeToPgTimestamptz(party.CreatedAt),
		timeToPgTimestamptz(party.UpdatedAt),
	)

	return err
}

// GetByID retrieves a party by ID, scoped to the owner.
func (r *PartyRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Party, error) {
	var (
		p                    domain.Party
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, kind, created_at, updated_at FROM parties WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Kind, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// List retrieves an owner's parties ordered by name.
func (r *PartyRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error) {
	query := `
		SELECT id, owner_id, name, kind, created_at, updated_at
		FROM parties
		WHERE owner_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []*domain.Party

	for rows.Next() {
		var (
			p                    domain.Party
			createdAt, updatedAt pgtype.Timestamptz
		)

		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Kind, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time
		parties = append(parties, &p)
	}

	return parties, rows.Err()
}

// Delete removes a party.
func (r *PartyRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) error {
	var db querier = r.pool
	if tx != nil {
		db = tx.(*Tx).PgxTx()
	}

	tag, err := db.Exec(ctx, `DELETE FROM parties WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPartyNotFound
	}

	return nil
}
