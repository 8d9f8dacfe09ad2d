package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbook/internal/domain"
)

// AlertRepository implements usecase.AlertRepository.
type AlertRepository struct {
	pool querier
}

// NewAlertRepository creates a new AlertRepository.
func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return newAlertRepositoryWithPool(pool)
}

func newAlertRepositoryWithPool(pool querier) *AlertRepository {
	return &AlertRepository{pool: pool}
}

// Create inserts a new alert.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (id, owner_id, entry_id, alert_type, severity, message, dismissed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		alert.ID,
		alert.OwnerID,
		alert.EntryID,
		string(alert.Type),
		string(alert.Severity),
		alert.Message,
		alert.Dismissed,
		timeToPgTimestamptz(alert.CreatedAt),
	)

	return err
}

// List retrieves an owner's alerts, newest first.
func (r *AlertRepository) List(ctx context.Context, ownerID string, includeDismissed bool, limit, offset int) ([]*domain.Alert, error) {
	query := `
		SELECT id, owner_id, entry_id, alert_type, severity, message, dismissed, created_at
		FROM alerts
		WHERE owner_id = $1 AND (dismissed = false OR $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, ownerID, includeDismissed, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*domain.Alert

	for rows.Next() {
		var (
			a         domain.Alert
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&a.ID,
			&a.OwnerID,
			&a.EntryID,
			&a.Type,
			&a.Severity,
			&a.Message,
			&a.Dismissed,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		a.CreatedAt = createdAt.Time
		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}

// Dismiss marks an alert as dismissed.
func (r *AlertRepository) Dismiss(ctx context.Context, id, ownerID string, dismissedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE alerts SET dismissed = true, dismissed_at = $3 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, timeToPgTimestamptz(dismissedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}
