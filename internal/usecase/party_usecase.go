package usecase

import (
	"context"
	"time"

	"github.com/iho/cashbook/internal/domain"
)

// PartyUseCase manages counterparties. Deleting a party nulls the
// reference on its entries rather than deleting them.
type PartyUseCase struct {
	txManager TransactionManager
	partyRepo PartyRepository
	entryRepo EntryRepository
	idGen     IDGenerator
}

// NewPartyUseCase creates a new PartyUseCase.
func NewPartyUseCase(txManager TransactionManager, partyRepo PartyRepository, entryRepo EntryRepository, idGen IDGenerator) *PartyUseCase {
	return &PartyUseCase{
		txManager: txManager,
		partyRepo: partyRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
	}
}

// CreatePartyInput represents input for creating a party.
type CreatePartyInput struct {
	OwnerID string
	Name    string
	Kind    domain.PartyKind
}

// CreateParty creates a new counterparty.
func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	now := time.Now().UTC()

	party := &domain.Party{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Kind:      input.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := party.Validate(); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}

	return party, nil
}

// GetParty retrieves a party by ID.
func (uc *PartyUseCase) GetParty(ctx context.Context, id, ownerID string) (*domain.Party, error) {
	return uc.partyRepo.GetByID(ctx, id, ownerID)
}

// ListParties lists an owner's parties.
func (uc *PartyUseCase) ListParties(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error) {
	limit, offset = clampPage(limit, offset)

	return uc.partyRepo.List(ctx, ownerID, limit, offset)
}

// DeleteParty removes a party and nulls the reference on every entry that
// pointed at it, in one transaction.
func (uc *PartyUseCase) DeleteParty(ctx context.Context, id, ownerID string) error {
	if _, err := uc.partyRepo.GetByID(ctx, id, ownerID); err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.ClearParty(ctx, tx, id, ownerID); err != nil {
		return err
	}

	if err := uc.partyRepo.Delete(ctx, tx, id, ownerID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
