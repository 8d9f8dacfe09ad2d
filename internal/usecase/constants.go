package usecase

import "time"

const (
	// ProfitCacheTTL bounds how stale a cached profit computation can be.
	// Every ledger mutation invalidates the key anyway; the TTL is a
	// backstop for missed invalidations.
	ProfitCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultPageSize and MaxPageSize bound list queries.
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// profitCacheKey is the cache key for an owner's whole-history profit
// metrics. Windowed queries are never cached.
func profitCacheKey(ownerID string) string {
	return "profit:" + ownerID
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
