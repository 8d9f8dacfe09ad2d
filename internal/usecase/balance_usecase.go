package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// BalanceUseCase reads the running cash balance and provides the
// full-recompute repair path.
type BalanceUseCase struct {
	entryRepo   EntryRepository
	balanceRepo BalanceRepository
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(entryRepo EntryRepository, balanceRepo BalanceRepository, m *metrics.Metrics) *BalanceUseCase {
	return &BalanceUseCase{
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		metrics:     m,
	}
}

// GetBalance returns the owner's running balance. An owner with no
// recorded mutations has a zero balance.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, ownerID string) (*domain.Balance, error) {
	balance, err := uc.balanceRepo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrBalanceNotFound) {
			return &domain.Balance{OwnerID: ownerID, Amount: decimal.Zero}, nil
		}

		return nil, err
	}

	return balance, nil
}

// Recalculate recomputes the balance from scratch over every entry of the
// owner and overwrites the stored value. Idempotent; used for periodic
// consistency repair, never on the mutation path.
func (uc *BalanceUseCase) Recalculate(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	entries, err := uc.entryRepo.List(ctx, ownerID, domain.EntryFilter{})
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.CashDelta())
	}

	if err := uc.balanceRepo.Set(ctx, ownerID, total, time.Now().UTC()); err != nil {
		return decimal.Zero, err
	}

	uc.metrics.BalanceRecalculated()

	return total, nil
}
