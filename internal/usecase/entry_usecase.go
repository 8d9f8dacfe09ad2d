package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// EntryUseCase handles entry mutations and keeps the running cash balance
// in step with them.
type EntryUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	balanceRepo BalanceRepository
	alertRepo   AlertRepository
	partyRepo   PartyRepository
	idGen       IDGenerator
	cache       Cache
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	balanceRepo BalanceRepository,
	alertRepo AlertRepository,
	partyRepo PartyRepository,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		alertRepo:   alertRepo,
		partyRepo:   partyRepo,
		idGen:       idGen,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	OwnerID       string
	EntryDate     time.Time
	Type          domain.EntryType
	Category      domain.Category
	Amount        decimal.Decimal
	PaymentMethod domain.PaymentMethod
	PartyID       *string
	Notes         string
}

// CreateEntryResult is returned by CreateEntry.
type CreateEntryResult struct {
	Entry      *domain.Entry
	NewBalance decimal.Decimal
}

// CreateEntry records a new entry and applies its cash delta to the
// owner's running balance in a single transaction. Alert evaluation runs
// after commit and never fails the mutation.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*CreateEntryResult, error) {
	now := time.Now().UTC()

	entry := &domain.Entry{
		ID:            uc.idGen.Generate(),
		OwnerID:       input.OwnerID,
		EntryDate:     dateOnly(input.EntryDate),
		Type:          input.Type,
		Category:      input.Category,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PartyID:       input.PartyID,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if entry.IsObligation() {
		entry.RemainingAmount = entry.Amount
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if entry.PartyID != nil {
		if _, err := uc.partyRepo.GetByID(ctx, *entry.PartyID, entry.OwnerID); err != nil {
			return nil, err
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	newBalance, err := uc.applyDelta(ctx, tx, entry.OwnerID, entry.CashDelta(), now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateProfit(ctx, entry.OwnerID)
	uc.metrics.EntryCreated(string(entry.Type))
	uc.generateAlerts(ctx, entry, newBalance)

	return &CreateEntryResult{Entry: entry, NewBalance: newBalance}, nil
}

// UpdateEntryInput carries the fields an edit may change. Nil means
// "leave unchanged"; unknown fields are rejected at the HTTP boundary.
type UpdateEntryInput struct {
	EntryDate     *time.Time
	Type          *domain.EntryType
	Category      *domain.Category
	Amount        *decimal.Decimal
	PaymentMethod *domain.PaymentMethod
	PartyID       *string
	Notes         *string
}

// UpdateEntryResult is returned by UpdateEntry.
type UpdateEntryResult struct {
	Entry      *domain.Entry
	NewBalance decimal.Decimal
}

// UpdateEntry edits an entry. The old cash delta is removed and the new one
// applied in the same transaction as the entry write, so the balance never
// reflects half an edit.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id, ownerID string, input UpdateEntryInput) (*UpdateEntryResult, error) {
	now := time.Now().UTC()

	if input.PartyID != nil {
		if _, err := uc.partyRepo.GetByID(ctx, *input.PartyID, ownerID); err != nil {
			return nil, err
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	old, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if old.IsSettlement {
		return nil, domain.ErrSettlementImmutable
	}

	updated := *old
	applyEntryUpdate(&updated, input, now)

	reshaped := updated.Type != old.Type || !updated.Amount.Equal(old.Amount) || updated.Category != old.Category
	if reshaped && old.IsObligation() && old.State() != domain.SettlementOpen {
		return nil, domain.ErrEntryHasSettlements
	}

	if updated.IsObligation() {
		// An open obligation tracks its face value; settled state survives
		// edits that do not reshape the entry.
		if !old.IsObligation() || reshaped {
			updated.RemainingAmount = updated.Amount
			updated.Settled = false
		}
	} else {
		updated.RemainingAmount = decimal.Zero
		updated.Settled = false
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Update(ctx, tx, &updated); err != nil {
		return nil, err
	}

	delta := updated.CashDelta().Sub(old.CashDelta())
	newBalance, err := uc.applyDelta(ctx, tx, ownerID, delta, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateProfit(ctx, ownerID)
	uc.metrics.EntryUpdated()

	return &UpdateEntryResult{Entry: &updated, NewBalance: newBalance}, nil
}

// DeleteEntryResult is returned by DeleteEntry.
type DeleteEntryResult struct {
	ReversedBalance decimal.Decimal
}

// DeleteEntry removes an entry and everything causally derived from it,
// leaving the ledger as if the entry had never existed:
//
//   - settled Credit: its CASH_IN/CASH_OUT companions are located through
//     the settles_entry_id reference, their cash reversed, and removed;
//   - settled Advance: its settlement companions (zero cash) are removed
//     and the advance's own creation-time cash effect reversed;
//   - deleting a companion directly restores the obligation's remaining
//     amount and reopens it.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id, ownerID string) (*DeleteEntryResult, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, id, ownerID)
	if err != nil {
		return nil, err
	}

	delta := decimal.Zero

	if entry.IsSettlement && entry.SettlesEntryID != nil {
		if err := uc.reopenObligation(ctx, tx, entry, now); err != nil {
			return nil, err
		}
	} else if entry.IsObligation() {
		companions, err := uc.entryRepo.ListSettlements(ctx, tx, entry.ID, ownerID)
		if err != nil {
			return nil, err
		}

		for _, c := range companions {
			delta = delta.Sub(c.CashDelta())

			if err := uc.entryRepo.Delete(ctx, tx, c.ID, ownerID); err != nil {
				return nil, err
			}
		}
	}

	delta = delta.Sub(entry.CashDelta())

	if err := uc.entryRepo.Delete(ctx, tx, entry.ID, ownerID); err != nil {
		return nil, err
	}

	newBalance, err := uc.applyDelta(ctx, tx, ownerID, delta, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateProfit(ctx, ownerID)
	uc.metrics.EntryDeleted()

	return &DeleteEntryResult{ReversedBalance: newBalance}, nil
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id, ownerID string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id, ownerID)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	OwnerID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// ListEntries lists entries for an owner, optionally date-windowed.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	return uc.entryRepo.List(ctx, input.OwnerID, domain.EntryFilter{
		From:   input.From,
		To:     input.To,
		Limit:  limit,
		Offset: offset,
	})
}

// reopenObligation undoes the settlement a companion entry recorded before
// the companion itself is deleted.
func (uc *EntryUseCase) reopenObligation(ctx context.Context, tx Transaction, companion *domain.Entry, now time.Time) error {
	orig, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, *companion.SettlesEntryID, companion.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			uc.logger.Error().
				Str("entry_id", companion.ID).
				Str("settles_entry_id", *companion.SettlesEntryID).
				Msg("settlement companion references a missing obligation")

			return domain.ErrConsistencyViolation
		}

		return err
	}

	restored := orig.RemainingAmount.Add(companion.Amount)
	if restored.GreaterThan(orig.Amount) {
		uc.logger.Error().
			Str("entry_id", orig.ID).
			Str("remaining", restored.String()).
			Str("amount", orig.Amount.String()).
			Msg("settlement reversal would exceed the obligation amount")

		return domain.ErrConsistencyViolation
	}

	orig.RemainingAmount = restored
	orig.Settled = restored.IsZero()
	orig.UpdatedAt = now

	return uc.entryRepo.Update(ctx, tx, orig)
}

// applyDelta applies a cash delta inside the transaction, or reads the
// current balance when the delta is zero so callers still get a value.
func (uc *EntryUseCase) applyDelta(ctx context.Context, tx Transaction, ownerID string, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !delta.IsZero() {
		return uc.balanceRepo.Increment(ctx, tx, ownerID, delta, now)
	}

	balance, err := uc.balanceRepo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrBalanceNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return balance.Amount, nil
}

// generateAlerts evaluates threshold alerts for a just-created entry.
// Failures are logged and swallowed: an alert must never roll back the
// mutation that triggered it.
func (uc *EntryUseCase) generateAlerts(ctx context.Context, entry *domain.Entry, balance decimal.Decimal) {
	from, to := domain.MonthWindow(time.Now().UTC())

	monthEntries, err := uc.entryRepo.List(ctx, entry.OwnerID, domain.EntryFilter{From: &from, To: &to})
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("owner_id", entry.OwnerID).
			Msg("failed to load current month entries for alert evaluation")

		monthEntries = nil
	}

	now := time.Now().UTC()

	for _, alert := range domain.EvaluateAlerts(entry, balance, monthEntries) {
		alert.ID = uc.idGen.Generate()
		alert.OwnerID = entry.OwnerID
		alert.CreatedAt = now

		if err := uc.alertRepo.Create(ctx, alert); err != nil {
			uc.logger.Warn().Err(err).
				Str("owner_id", entry.OwnerID).
				Str("alert_type", string(alert.Type)).
				Msg("failed to persist alert")

			continue
		}

		uc.metrics.AlertFired(string(alert.Type))
	}
}

func (uc *EntryUseCase) invalidateProfit(ctx context.Context, ownerID string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, profitCacheKey(ownerID)); err != nil {
		uc.logger.Warn().Err(err).
			Str("owner_id", ownerID).
			Msg("failed to invalidate profit cache")
	}
}

func applyEntryUpdate(e *domain.Entry, input UpdateEntryInput, now time.Time) {
	if input.EntryDate != nil {
		e.EntryDate = dateOnly(*input.EntryDate)
	}

	if input.Type != nil {
		e.Type = *input.Type
	}

	if input.Category != nil {
		e.Category = *input.Category
	}

	if input.Amount != nil {
		e.Amount = *input.Amount
	}

	if input.PaymentMethod != nil {
		e.PaymentMethod = *input.PaymentMethod
	}

	if input.PartyID != nil {
		e.PartyID = input.PartyID
	}

	if input.Notes != nil {
		e.Notes = *input.Notes
	}

	e.UpdatedAt = now
}

// dateOnly strips the time component: entries are accounted per calendar day.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
