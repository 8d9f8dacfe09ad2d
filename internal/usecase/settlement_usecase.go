package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// SettlementUseCase resolves Credit and Advance obligations, partially or
// fully, spawning the companion entries that carry the settlement's cash
// and accrual effects.
type SettlementUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	balanceRepo BalanceRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	balanceRepo BalanceRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}
}

// SettleInput represents input for settling an obligation.
type SettleInput struct {
	OwnerID        string
	ObligationID   string
	Amount         decimal.Decimal
	SettlementDate time.Time
	PaymentMethod  domain.PaymentMethod
}

// SettleResult is returned by Settle.
type SettleResult struct {
	Obligation      *domain.Entry
	Companion       *domain.Entry
	RemainingAmount decimal.Decimal
	NewBalance      decimal.Decimal
}

// Settle decrements an obligation's remaining amount and creates its
// companion entry as one atomic unit. A Credit settlement realizes cash
// through a CASH_IN/CASH_OUT companion; an Advance settlement's companion
// moves no cash (the cash moved at creation) but triggers accrual
// recognition.
func (uc *SettlementUseCase) Settle(ctx context.Context, input SettleInput) (*SettleResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	var result *SettleResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error

		result, err = uc.settleOnce(ctx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateProfit(ctx, input.OwnerID)
	uc.metrics.SettlementProcessed(string(result.Obligation.Type))

	return result, nil
}

func (uc *SettlementUseCase) settleOnce(ctx context.Context, input SettleInput) (*SettleResult, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	obligation, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, input.ObligationID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if !obligation.IsObligation() {
		return nil, domain.ErrNotSettleable
	}

	if obligation.Settled {
		return nil, domain.ErrAlreadySettled
	}

	if input.Amount.GreaterThan(obligation.RemainingAmount) {
		return nil, domain.ErrSettleExceedsRemaining
	}

	companion, err := uc.buildCompanion(obligation, input, now)
	if err != nil {
		return nil, err
	}

	obligation.RemainingAmount = obligation.RemainingAmount.Sub(input.Amount)
	obligation.Settled = obligation.RemainingAmount.IsZero()
	obligation.UpdatedAt = now

	if err := uc.entryRepo.Update(ctx, tx, obligation); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, companion); err != nil {
		return nil, err
	}

	newBalance := decimal.Zero

	delta := companion.CashDelta()
	if !delta.IsZero() {
		newBalance, err = uc.balanceRepo.Increment(ctx, tx, input.OwnerID, delta, now)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if delta.IsZero() {
		// Advance settlements move no cash; report the standing balance.
		if balance, err := uc.balanceRepo.Get(ctx, input.OwnerID); err == nil {
			newBalance = balance.Amount
		}
	}

	return &SettleResult{
		Obligation:      obligation,
		Companion:       companion,
		RemainingAmount: obligation.RemainingAmount,
		NewBalance:      newBalance,
	}, nil
}

// buildCompanion constructs the settlement's companion entry.
func (uc *SettlementUseCase) buildCompanion(obligation *domain.Entry, input SettleInput, now time.Time) (*domain.Entry, error) {
	companion := &domain.Entry{
		ID:             uc.idGen.Generate(),
		OwnerID:        obligation.OwnerID,
		EntryDate:      dateOnly(input.SettlementDate),
		Category:       obligation.Category,
		Amount:         input.Amount,
		PartyID:        obligation.PartyID,
		IsSettlement:   true,
		SettlesEntryID: &obligation.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch obligation.Type {
	case domain.EntryCredit:
		// The companion is what the cash ledger actually sees.
		if input.PaymentMethod != domain.PaymentCash && input.PaymentMethod != domain.PaymentBank {
			return nil, domain.ErrInvalidPaymentMethod
		}

		companion.PaymentMethod = input.PaymentMethod
		if obligation.Category == domain.CategorySales {
			companion.Type = domain.EntryCashIn
		} else {
			companion.Type = domain.EntryCashOut
		}
	case domain.EntryAdvance:
		// Cash already moved when the advance was created.
		companion.PaymentMethod = domain.PaymentNone
		if obligation.Category == domain.CategorySales {
			companion.Type = domain.EntryAdvanceSettlementReceived
		} else {
			companion.Type = domain.EntryAdvanceSettlementPaid
		}
	}

	if err := companion.Validate(); err != nil {
		return nil, err
	}

	return companion, nil
}

func (uc *SettlementUseCase) invalidateProfit(ctx context.Context, ownerID string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, profitCacheKey(ownerID)); err != nil {
		uc.logger.Warn().Err(err).
			Str("owner_id", ownerID).
			Msg("failed to invalidate profit cache")
	}
}
