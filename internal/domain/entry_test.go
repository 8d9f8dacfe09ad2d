package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iho/cashbook/internal/domain"
)

func TestEntryCashDelta(t *testing.T) {
	tests := []struct {
		name     string
		entry    domain.Entry
		expected int64
	}{
		{
			name:     "cash in adds",
			entry:    domain.Entry{Type: domain.EntryCashIn, Amount: decimal.NewFromInt(100)},
			expected: 100,
		},
		{
			name:     "cash out subtracts",
			entry:    domain.Entry{Type: domain.EntryCashOut, Amount: decimal.NewFromInt(40)},
			expected: -40,
		},
		{
			name:     "credit moves no cash",
			entry:    domain.Entry{Type: domain.EntryCredit, Category: domain.CategorySales, Amount: decimal.NewFromInt(1000)},
			expected: 0,
		},
		{
			name:     "sales advance is money received up front",
			entry:    domain.Entry{Type: domain.EntryAdvance, Category: domain.CategorySales, Amount: decimal.NewFromInt(500)},
			expected: 500,
		},
		{
			name:     "expense advance is money paid up front",
			entry:    domain.Entry{Type: domain.EntryAdvance, Category: domain.CategoryCOGS, Amount: decimal.NewFromInt(500)},
			expected: -500,
		},
		{
			name:     "advance settlement moves no cash",
			entry:    domain.Entry{Type: domain.EntryAdvanceSettlementPaid, Category: domain.CategoryCOGS, Amount: decimal.NewFromInt(500)},
			expected: 0,
		},
		{
			name:     "legacy credit settlement subtype moves no cash",
			entry:    domain.Entry{Type: domain.EntryCreditSettlementCollection, Category: domain.CategorySales, Amount: decimal.NewFromInt(300)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.entry.CashDelta().Equal(decimal.NewFromInt(tt.expected)),
				"expected %d, got %s", tt.expected, tt.entry.CashDelta())
		})
	}
}

func TestEntryValidate(t *testing.T) {
	base := func() domain.Entry {
		return domain.Entry{
			OwnerID:       "owner-1",
			Type:          domain.EntryCashIn,
			Category:      domain.CategorySales,
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: domain.PaymentCash,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Entry)
		wantErr error
	}{
		{
			name:   "valid cash in",
			mutate: func(e *domain.Entry) {},
		},
		{
			name: "missing owner",
			mutate: func(e *domain.Entry) {
				e.OwnerID = ""
			},
			wantErr: domain.ErrOwnerRequired,
		},
		{
			name: "zero amount",
			mutate: func(e *domain.Entry) {
				e.Amount = decimal.Zero
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			mutate: func(e *domain.Entry) {
				e.Amount = decimal.NewFromInt(-5)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown type",
			mutate: func(e *domain.Entry) {
				e.Type = "TRANSFER"
			},
			wantErr: domain.ErrInvalidEntryType,
		},
		{
			name: "unknown category",
			mutate: func(e *domain.Entry) {
				e.Category = "PAYROLL"
			},
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name: "credit must use payment method none",
			mutate: func(e *domain.Entry) {
				e.Type = domain.EntryCredit
				e.PaymentMethod = domain.PaymentCash
				e.RemainingAmount = e.Amount
			},
			wantErr: domain.ErrInvalidPaymentMethod,
		},
		{
			name: "advance must use cash or bank",
			mutate: func(e *domain.Entry) {
				e.Type = domain.EntryAdvance
				e.PaymentMethod = domain.PaymentNone
				e.RemainingAmount = e.Amount
			},
			wantErr: domain.ErrInvalidPaymentMethod,
		},
		{
			name: "valid open credit",
			mutate: func(e *domain.Entry) {
				e.Type = domain.EntryCredit
				e.PaymentMethod = domain.PaymentNone
				e.RemainingAmount = e.Amount
			},
		},
		{
			name: "remaining above amount",
			mutate: func(e *domain.Entry) {
				e.Type = domain.EntryCredit
				e.PaymentMethod = domain.PaymentNone
				e.RemainingAmount = e.Amount.Add(decimal.NewFromInt(1))
			},
			wantErr: domain.ErrRemainingOutOfRange,
		},
		{
			name: "settled flag must track remaining",
			mutate: func(e *domain.Entry) {
				e.Type = domain.EntryCredit
				e.PaymentMethod = domain.PaymentNone
				e.RemainingAmount = e.Amount
				e.Settled = true
			},
			wantErr: domain.ErrSettledFlagMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base()
			tt.mutate(&e)

			err := e.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntryState(t *testing.T) {
	amount := decimal.NewFromInt(1000)

	open := domain.Entry{Type: domain.EntryCredit, Amount: amount, RemainingAmount: amount}
	assert.Equal(t, domain.SettlementOpen, open.State())

	partial := domain.Entry{Type: domain.EntryCredit, Amount: amount, RemainingAmount: decimal.NewFromInt(400)}
	assert.Equal(t, domain.SettlementPartiallySettled, partial.State())

	settled := domain.Entry{Type: domain.EntryCredit, Amount: amount, RemainingAmount: decimal.Zero, Settled: true}
	assert.Equal(t, domain.SettlementSettled, settled.State())
}
