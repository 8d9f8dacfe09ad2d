package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound       = errors.New("entry not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidEntryType    = errors.New("unknown entry type")
	ErrInvalidCategory     = errors.New("unknown category")
	ErrInvalidPaymentMethod = errors.New("payment method not allowed for entry type")
	ErrOwnerRequired       = errors.New("owner id is required")
	ErrInvalidEntryDate    = errors.New("invalid entry date")

	// Settlement errors
	ErrNotSettleable          = errors.New("entry is not a credit or advance obligation")
	ErrAlreadySettled         = errors.New("obligation is already fully settled")
	ErrSettleExceedsRemaining = errors.New("settle amount exceeds remaining amount")
	ErrRemainingOutOfRange    = errors.New("remaining amount outside [0, amount]")
	ErrSettledFlagMismatch    = errors.New("settled flag does not match remaining amount")
	ErrEntryHasSettlements    = errors.New("entry has settlements and cannot be changed")
	ErrSettlementImmutable    = errors.New("settlement entries are managed by the settlement engine")

	// Party errors
	ErrPartyNotFound = errors.New("party not found")
	ErrInvalidParty  = errors.New("invalid party")

	// Alert errors
	ErrAlertNotFound = errors.New("alert not found")

	// Balance errors
	ErrBalanceNotFound = errors.New("balance not found")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")

	// ErrConsistencyViolation marks a logic defect: a state that the
	// settlement bookkeeping invariants should make impossible.
	ErrConsistencyViolation = errors.New("ledger consistency violation")
)
