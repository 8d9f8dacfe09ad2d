package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// entryDateLayout is the wire format for entry dates. Entries carry a
// business date, not a timestamp.
const entryDateLayout = "2006-01-02"

// CreateEntryRequest represents a request to create a ledger entry.
type CreateEntryRequest struct {
	EntryDate     string          `json:"entry_date"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PartyID       *string         `json:"party_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(ownerID string) (usecase.CreateEntryInput, error) {
	entryDate, err := time.Parse(entryDateLayout, r.EntryDate)
	if err != nil {
		return usecase.CreateEntryInput{}, domain.ErrInvalidEntryDate
	}

	return usecase.CreateEntryInput{
		OwnerID:       ownerID,
		EntryDate:     entryDate,
		Type:          domain.EntryType(r.Type),
		Category:      domain.Category(r.Category),
		Amount:        r.Amount,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		PartyID:       r.PartyID,
		Notes:         r.Notes,
	}, nil
}

// UpdateEntryRequest represents a partial entry edit. Absent fields are
// left unchanged; unknown fields are rejected by the strict decoder.
type UpdateEntryRequest struct {
	EntryDate     *string          `json:"entry_date,omitempty"`
	Type          *string          `json:"type,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	PartyID       *string          `json:"party_id,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput() (usecase.UpdateEntryInput, error) {
	input := usecase.UpdateEntryInput{
		Amount:  r.Amount,
		PartyID: r.PartyID,
		Notes:   r.Notes,
	}

	if r.EntryDate != nil {
		entryDate, err := time.Parse(entryDateLayout, *r.EntryDate)
		if err != nil {
			return usecase.UpdateEntryInput{}, domain.ErrInvalidEntryDate
		}

		input.EntryDate = &entryDate
	}

	if r.Type != nil {
		t := domain.EntryType(*r.Type)
		input.Type = &t
	}

	if r.Category != nil {
		c := domain.Category(*r.Category)
		input.Category = &c
	}

	if r.PaymentMethod != nil {
		m := domain.PaymentMethod(*r.PaymentMethod)
		input.PaymentMethod = &m
	}

	return input, nil
}

// SettleRequest represents a request to settle an obligation.
type SettleRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	SettlementDate string          `json:"settlement_date"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SettleRequest) ToUseCaseInput(ownerID, obligationID string) (usecase.SettleInput, error) {
	settlementDate, err := time.Parse(entryDateLayout, r.SettlementDate)
	if err != nil {
		return usecase.SettleInput{}, domain.ErrInvalidEntryDate
	}

	return usecase.SettleInput{
		OwnerID:        ownerID,
		ObligationID:   obligationID,
		Amount:         r.Amount,
		SettlementDate: settlementDate,
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
	}, nil
}

// CreatePartyRequest represents a request to create a counterparty.
type CreatePartyRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartyRequest) ToUseCaseInput(ownerID string) usecase.CreatePartyInput {
	return usecase.CreatePartyInput{
		OwnerID: ownerID,
		Name:    r.Name,
		Kind:    domain.PartyKind(r.Kind),
	}
}
