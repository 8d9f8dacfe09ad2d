package domain

import (
	"strings"
	"time"
)

// PartyKind distinguishes customers from vendors.
type PartyKind string

const (
	PartyCustomer PartyKind = "CUSTOMER"
	PartyVendor   PartyKind = "VENDOR"
)

// Party is a named counterparty. Entries reference it but never own it:
// deleting a party nulls the reference on its entries.
type Party struct {
	ID        string
	OwnerID   string
	Name      string
	Kind      PartyKind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks party fields.
func (p *Party) Validate() error {
	if p.OwnerID == "" {
		return ErrOwnerRequired
	}

	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidParty
	}

	if p.Kind != PartyCustomer && p.Kind != PartyVendor {
		return ErrInvalidParty
	}

	return nil
}
