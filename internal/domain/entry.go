package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType identifies what kind of financial fact an entry records.
type EntryType string

const (
	EntryCashIn  EntryType = "CASH_IN"
	EntryCashOut EntryType = "CASH_OUT"
	EntryCredit  EntryType = "CREDIT"
	EntryAdvance EntryType = "ADVANCE"

	// Settlement-derived subtypes. Credit settlements are realized as
	// CASH_IN/CASH_OUT companion entries; the CREDIT_SETTLEMENT_* values are
	// accepted as stored data but never produced by the settlement engine.
	EntryCreditSettlementCollection EntryType = "CREDIT_SETTLEMENT_COLLECTION"
	EntryCreditSettlementBill       EntryType = "CREDIT_SETTLEMENT_BILL"
	EntryAdvanceSettlementReceived  EntryType = "ADVANCE_SETTLEMENT_RECEIVED"
	EntryAdvanceSettlementPaid      EntryType = "ADVANCE_SETTLEMENT_PAID"
)

// Category classifies an entry for profit reporting.
type Category string

const (
	CategorySales  Category = "SALES"
	CategoryCOGS   Category = "COGS"
	CategoryOpex   Category = "OPEX"
	CategoryAssets Category = "ASSETS"
)

// PaymentMethod records how cash moved, if it moved.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentBank PaymentMethod = "BANK"
	PaymentNone PaymentMethod = "NONE"
)

// SettlementState is the lifecycle state of a Credit or Advance obligation.
type SettlementState string

const (
	SettlementOpen             SettlementState = "OPEN"
	SettlementPartiallySettled SettlementState = "PARTIALLY_SETTLED"
	SettlementSettled          SettlementState = "SETTLED"
)

// Entry represents a single recorded financial fact: a cash movement, a
// credit invoice, an advance payment, or a settlement companion.
type Entry struct {
	ID              string
	OwnerID         string
	EntryDate       time.Time
	Type            EntryType
	Category        Category
	Amount          decimal.Decimal
	RemainingAmount decimal.Decimal
	Settled         bool
	PaymentMethod   PaymentMethod
	PartyID         *string
	IsSettlement    bool
	SettlesEntryID  *string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsObligation reports whether the entry is a Credit or Advance that can be
// settled against.
func (e *Entry) IsObligation() bool {
	return e.Type == EntryCredit || e.Type == EntryAdvance
}

// CashDelta returns the entry's contribution to the running cash balance.
//
// Credit never moves cash at creation: its settlements are realized as
// CASH_IN/CASH_OUT companion entries and counted there. Advance moves cash
// up front, so its settlement companions contribute nothing.
func (e *Entry) CashDelta() decimal.Decimal {
	switch e.Type {
	case EntryCashIn:
		return e.Amount
	case EntryCashOut:
		return e.Amount.Neg()
	case EntryAdvance:
		if e.Category == CategorySales {
			return e.Amount
		}
		return e.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// State returns the settlement lifecycle state of an obligation entry.
func (e *Entry) State() SettlementState {
	switch {
	case e.RemainingAmount.IsZero():
		return SettlementSettled
	case e.RemainingAmount.Equal(e.Amount):
		return SettlementOpen
	default:
		return SettlementPartiallySettled
	}
}

// Validate checks that the entry is internally consistent: positive amount,
// known type/category, and a payment method legal for the entry type.
func (e *Entry) Validate() error {
	if e.OwnerID == "" {
		return ErrOwnerRequired
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !validEntryTypes[e.Type] {
		return ErrInvalidEntryType
	}

	if !validCategories[e.Category] {
		return ErrInvalidCategory
	}

	switch e.Type {
	case EntryCredit:
		// Credit moves no cash at creation.
		if e.PaymentMethod != PaymentNone {
			return ErrInvalidPaymentMethod
		}
	case EntryCashIn, EntryCashOut, EntryAdvance:
		if e.PaymentMethod != PaymentCash && e.PaymentMethod != PaymentBank {
			return ErrInvalidPaymentMethod
		}
	default:
		// Settlement subtypes carry no payment method of their own.
		if e.PaymentMethod != PaymentNone {
			return ErrInvalidPaymentMethod
		}
	}

	if e.IsObligation() {
		if e.RemainingAmount.IsNegative() || e.RemainingAmount.GreaterThan(e.Amount) {
			return ErrRemainingOutOfRange
		}

		if e.Settled != e.RemainingAmount.IsZero() {
			return ErrSettledFlagMismatch
		}
	}

	return nil
}

var validEntryTypes = map[EntryType]bool{
	EntryCashIn:                     true,
	EntryCashOut:                    true,
	EntryCredit:                     true,
	EntryAdvance:                    true,
	EntryCreditSettlementCollection: true,
	EntryCreditSettlementBill:       true,
	EntryAdvanceSettlementReceived:  true,
	EntryAdvanceSettlementPaid:      true,
}

var validCategories = map[Category]bool{
	CategorySales:  true,
	CategoryCOGS:   true,
	CategoryOpex:   true,
	CategoryAssets: true,
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
