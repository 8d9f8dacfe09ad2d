package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id, ownerID string) (*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Delete(ctx context.Context, tx Transaction, id, ownerID string) error
	List(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]*domain.Entry, error)
	// ListSettlements returns the settlement companions referencing the
	// given obligation entry, locked for update.
	ListSettlements(ctx context.Context, tx Transaction, settlesEntryID, ownerID string) ([]*domain.Entry, error)
	// ClearParty nulls the party reference on all entries pointing at the
	// given party.
	ClearParty(ctx context.Context, tx Transaction, partyID, ownerID string) error
}

// BalanceRepository defines data access for per-owner running balances.
type BalanceRepository interface {
	Get(ctx context.Context, ownerID string) (*domain.Balance, error)
	// Increment applies a delta atomically at the store level and returns
	// the resulting balance. Concurrent increments for the same owner must
	// serialize; a read-modify-write sequence is not acceptable here.
	Increment(ctx context.Context, tx Transaction, ownerID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	// Set overwrites the balance, used by the full-recompute repair path.
	Set(ctx context.Context, ownerID string, amount decimal.Decimal, updatedAt time.Time) error
}

// PartyRepository defines data access for counterparties.
type PartyRepository interface {
	Create(ctx context.Context, party *domain.Party) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.Party, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error)
	Delete(ctx context.Context, tx Transaction, id, ownerID string) error
}

// AlertRepository defines data access for threshold alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	List(ctx context.Context, ownerID string, includeDismissed bool, limit, offset int) ([]*domain.Alert, error)
	Dismiss(ctx context.Context, id, ownerID string, dismissedAt time.Time) error
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

// Retrier re-runs an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
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
