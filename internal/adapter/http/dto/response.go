package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	EntryDate       string          `json:"entry_date"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	SettlementState string          `json:"settlement_state,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	PartyID         *string         `json:"party_id,omitempty"`
	IsSettlement    bool            `json:"is_settlement,omitempty"`
	SettlesEntryID  *string         `json:"settles_entry_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:              e.ID,
		EntryDate:       e.EntryDate.Format(entryDateLayout),
		Type:            string(e.Type),
		Category:        string(e.Category),
		Amount:          e.Amount,
		RemainingAmount: e.RemainingAmount,
		PaymentMethod:   string(e.PaymentMethod),
		PartyID:         e.PartyID,
		IsSettlement:    e.IsSettlement,
		SettlesEntryID:  e.SettlesEntryID,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	if e.IsObligation() {
		resp.SettlementState = string(e.State())
	}

	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}

	return result
}

// MutationResponse pairs an entry with the balance it produced.
type MutationResponse struct {
	Entry      *EntryResponse  `json:"entry"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// SettleResponse represents the outcome of a settlement.
type SettleResponse struct {
	Obligation      *EntryResponse  `json:"obligation"`
	Companion       *EntryResponse  `json:"companion"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	NewBalance      decimal.Decimal `json:"new_balance"`
}

// SettleFromResult converts a settlement result to a response.
func SettleFromResult(result *usecase.SettleResult) *SettleResponse {
	return &SettleResponse{
		Obligation:      EntryFromDomain(result.Obligation),
		Companion:       EntryFromDomain(result.Companion),
		RemainingAmount: result.RemainingAmount,
		NewBalance:      result.NewBalance,
	}
}

// BalanceResponse represents the running cash balance.
type BalanceResponse struct {
	OwnerID   string          `json:"owner_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		OwnerID:   b.OwnerID,
		Balance:   b.Amount,
		UpdatedAt: b.UpdatedAt,
	}
}

// ProfitResponse represents accrual profit metrics.
type ProfitResponse struct {
	Revenue      decimal.Decimal  `json:"revenue"`
	COGS         decimal.Decimal  `json:"cogs"`
	Opex         decimal.Decimal  `json:"opex"`
	GrossProfit  decimal.Decimal  `json:"gross_profit"`
	NetProfit    decimal.Decimal  `json:"net_profit"`
	ProfitMargin *decimal.Decimal `json:"profit_margin,omitempty"`
}

// ProfitFromDomain converts profit metrics to a response. The margin is
// omitted when revenue is zero rather than reported as a bogus number.
func ProfitFromDomain(m *domain.ProfitMetrics) *ProfitResponse {
	resp := &ProfitResponse{
		Revenue:     m.Revenue,
		COGS:        m.COGS,
		Opex:        m.Opex,
		GrossProfit: m.GrossProfit,
		NetProfit:   m.NetProfit,
	}

	if m.HasMargin {
		margin := m.ProfitMargin
		resp.ProfitMargin = &margin
	}

	return resp
}

// CashSummaryResponse represents a month's cash totals.
type CashSummaryResponse struct {
	Month    string          `json:"month"`
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
	Net      decimal.Decimal `json:"net"`
}

// AlertResponse represents a threshold alert.
type AlertResponse struct {
	ID        string    `json:"id"`
	EntryID   *string   `json:"entry_id,omitempty"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Dismissed bool      `json:"dismissed"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertFromDomain converts a domain alert to a response.
func AlertFromDomain(a *domain.Alert) *AlertResponse {
	return &AlertResponse{
		ID:        a.ID,
		EntryID:   a.EntryID,
		Type:      string(a.Type),
		Severity:  string(a.Severity),
		Message:   a.Message,
		Dismissed: a.Dismissed,
		CreatedAt: a.CreatedAt,
	}
}

// AlertsFromDomain converts domain alerts to responses.
func AlertsFromDomain(alerts []*domain.Alert) []*AlertResponse {
	result := make([]*AlertResponse, len(alerts))
	for i, a := range alerts {
		result[i] = AlertFromDomain(a)
	}

	return result
}

// PartyResponse represents a counterparty.
type PartyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartyFromDomain converts a domain party to a response.
func PartyFromDomain(p *domain.Party) *PartyResponse {
	return &PartyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      string(p.Kind),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PartiesFromDomain converts domain parties to responses.
func PartiesFromDomain(parties []*domain.Party) []*PartyResponse {
	result := make([]*PartyResponse, len(parties))
	for i, p := range parties {
		result[i] = PartyFromDomain(p)
	}

	return result
}

// RecalculateResponse represents the outcome of a balance recomputation.
type RecalculateResponse struct {
	OwnerID string          `json:"owner_id"`
	Balance decimal.Decimal `json:"balance"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps a list payload with pagination echoes.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
