package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// ProfitUseCase derives accrual profit metrics from the entry set. It is a
// pure read-side consumer: it never mutates the ledger.
type ProfitUseCase struct {
	entryRepo EntryRepository
	cache     Cache
	logger    zerolog.Logger
}

// NewProfitUseCase creates a new ProfitUseCase.
func NewProfitUseCase(entryRepo EntryRepository, cache Cache, logger zerolog.Logger) *ProfitUseCase {
	return &ProfitUseCase{
		entryRepo: entryRepo,
		cache:     cache,
		logger:    logger,
	}
}

// GetProfitMetricsInput represents input for a profit query.
type GetProfitMetricsInput struct {
	OwnerID string
	From    *time.Time
	To      *time.Time
}

// GetProfitMetrics computes accrual revenue/COGS/Opex and the derived
// profit figures. Whole-history results are cached; windowed queries go to
// the store every time.
func (uc *ProfitUseCase) GetProfitMetrics(ctx context.Context, input GetProfitMetricsInput) (*domain.ProfitMetrics, error) {
	cacheable := input.From == nil && input.To == nil

	if cacheable {
		if m, ok := uc.fromCache(ctx, input.OwnerID); ok {
			return m, nil
		}
	}

	entries, err := uc.entryRepo.List(ctx, input.OwnerID, domain.EntryFilter{
		From: input.From,
		To:   input.To,
	})
	if err != nil {
		return nil, err
	}

	m := domain.ComputeProfit(entries)

	if cacheable {
		uc.toCache(ctx, input.OwnerID, &m)
	}

	return &m, nil
}

// CashSummary is a month's cash movement totals, for dashboards.
type CashSummary struct {
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
	Net      decimal.Decimal
}

// GetMonthlyCashSummary totals cash in/out for the calendar month
// containing the given date.
func (uc *ProfitUseCase) GetMonthlyCashSummary(ctx context.Context, ownerID string, at time.Time) (*CashSummary, error) {
	from, to := domain.MonthWindow(at)

	entries, err := uc.entryRepo.List(ctx, ownerID, domain.EntryFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	summary := &CashSummary{
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
		Net:      decimal.Zero,
	}

	for _, e := range entries {
		delta := e.CashDelta()

		switch {
		case delta.IsPositive():
			summary.TotalIn = summary.TotalIn.Add(delta)
		case delta.IsNegative():
			summary.TotalOut = summary.TotalOut.Add(delta.Neg())
		}
	}

	summary.Net = summary.TotalIn.Sub(summary.TotalOut)

	return summary, nil
}

func (uc *ProfitUseCase) fromCache(ctx context.Context, ownerID string) (*domain.ProfitMetrics, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, profitCacheKey(ownerID))
	if err != nil || data == nil {
		return nil, false
	}

	var m domain.ProfitMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		uc.logger.Warn().Err(err).
			Str("owner_id", ownerID).
			Msg("discarding malformed cached profit metrics")

		return nil, false
	}

	return &m, true
}

func (uc *ProfitUseCase) toCache(ctx context.Context, ownerID string, m *domain.ProfitMetrics) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(m)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, profitCacheKey(ownerID), data, ProfitCacheTTL); err != nil {
		uc.logger.Warn().Err(err).
			Str("owner_id", ownerID).
			Msg("failed to cache profit metrics")
	}
}
