package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the incrementally maintained cash position of one owner.
// UpdatedAt makes staleness observable to callers; the amount is only
// authoritative relative to a full recomputation over the owner's entries.
type Balance struct {
	OwnerID   string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
