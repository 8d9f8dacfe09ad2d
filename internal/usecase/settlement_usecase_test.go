package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestSettlementUseCase_SettleCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("full settlement realizes cash and closes the obligation", func(t *testing.T) {
		// Scenario: a Credit/Sales invoice of 1000 moves no cash at
		// creation; settling it for 1000 raises cash by 1000.
		f := newLedgerFixture()

		created, err := f.entryUC.CreateEntry(ctx, credit("owner-1", domain.CategorySales, 1000))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		result, err := f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   created.Entry.ID,
			Amount:         decimal.NewFromInt(1000),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentCash,
		})
		if err != nil {
			t.Fatalf("settle: %v", err)
		}

		if !result.RemainingAmount.IsZero() {
			t.Fatalf("expected zero remaining, got %s", result.RemainingAmount)
		}

		if !result.Obligation.Settled {
			t.Fatal("obligation must be settled")
		}

		if result.Companion.Type != domain.EntryCashIn {
			t.Fatalf("expected CASH_IN companion, got %s", result.Companion.Type)
		}

		if !result.Companion.IsSettlement {
			t.Fatal("companion must be flagged as a settlement entry")
		}

		if result.Companion.SettlesEntryID == nil || *result.Companion.SettlesEntryID != created.Entry.ID {
			t.Fatal("companion must reference the obligation")
		}

		if !result.NewBalance.Equal(decimal.NewFromInt(1000)) {
			t.Fatalf("expected balance 1000, got %s", result.NewBalance)
		}

		f.assertBalanceConsistent(t, "owner-1")
	})

	t.Run("credit bill settlement realizes cash out", func(t *testing.T) {
		f := newLedgerFixture()

		created, err := f.entryUC.CreateEntry(ctx, credit("owner-1", domain.CategoryCOGS, 800))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		result, err := f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   created.Entry.ID,
			Amount:         decimal.NewFromInt(800),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentBank,
		})
		if err != nil {
			t.Fatalf("settle: %v", err)
		}

		if result.Companion.Type != domain.EntryCashOut {
			t.Fatalf("expected CASH_OUT companion, got %s", result.Companion.Type)
		}

		if !result.NewBalance.Equal(decimal.NewFromInt(-800)) {
			t.Fatalf("expected balance -800, got %s", result.NewBalance)
		}

		f.assertBalanceConsistent(t, "owner-1")
	})

	t.Run("partial settlements walk the state machine", func(t *testing.T) {
		f := newLedgerFixture()

		created, err := f.entryUC.CreateEntry(ctx, credit("owner-1", domain.CategorySales, 1000))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		first, err := f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   created.Entry.ID,
			Amount:         decimal.NewFromInt(400),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentCash,
		})
		if err != nil {
			t.Fatalf("first settle: %v", err)
		}

		if first.Obligation.State() != domain.SettlementPartiallySettled {
			t.Fatalf("expected PARTIALLY_SETTLED, got %s", first.Obligation.State())
		}

		second, err := f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   created.Entry.ID,
			Amount:         decimal.NewFromInt(600),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentBank,
		})
		if err != nil {
			t.Fatalf("second settle: %v", err)
		}

		if second.Obligation.State() != domain.SettlementSettled {
			t.Fatalf("expected SETTLED, got %s", second.Obligation.State())
		}

		if !second.NewBalance.Equal(decimal.NewFromInt(1000)) {
			t.Fatalf("expected balance 1000, got %s", second.NewBalance)
		}

		f.assertBalanceConsistent(t, "owner-1")
	})
}

func TestSettlementUseCase_SettleAdvance(t *testing.T) {
	ctx := context.Background()

	// Scenario: an Advance/COGS of 500 paid in cash lowers the balance at
	// creation; settling it creates an ADVANCE_SETTLEMENT_PAID companion
	// that moves no cash.
	f := newLedgerFixture()

	created, err := f.entryUC.CreateEntry(ctx, advance("owner-1", domain.CategoryCOGS, 500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !created.NewBalance.Equal(decimal.NewFromInt(-500)) {
		t.Fatalf("expected balance -500 after advance, got %s", created.NewBalance)
	}

	result, err := f.settleUC.Settle(ctx, usecase.SettleInput{
		OwnerID:        "owner-1",
		ObligationID:   created.Entry.ID,
		Amount:         decimal.NewFromInt(500),
		SettlementDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	if result.Companion.Type != domain.EntryAdvanceSettlementPaid {
		t.Fatalf("expected ADVANCE_SETTLEMENT_PAID, got %s", result.Companion.Type)
	}

	if result.Companion.PaymentMethod != domain.PaymentNone {
		t.Fatal("advance settlement companion carries no payment method")
	}

	// Cash already moved at creation.
	if !result.NewBalance.Equal(decimal.NewFromInt(-500)) {
		t.Fatalf("expected balance unchanged at -500, got %s", result.NewBalance)
	}

	f.assertBalanceConsistent(t, "owner-1")

	t.Run("sales advance settles to received", func(t *testing.T) {
		f := newLedgerFixture()

		created, err := f.entryUC.CreateEntry(ctx, advance("owner-1", domain.CategorySales, 750))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		result, err := f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   created.Entry.ID,
			Amount:         decimal.NewFromInt(750),
			SettlementDate: time.Now(),
		})
		if err != nil {
			t.Fatalf("settle: %v", err)
		}

		if result.Companion.Type != domain.EntryAdvanceSettlementReceived {
			t.Fatalf("expected ADVANCE_SETTLEMENT_RECEIVED, got %s", result.Companion.Type)
		}
	})
}

func TestSettlementUseCase_SettleRejections(t *testing.T) {
	ctx := context.Background()

	f := newLedgerFixture()

	creditEntry, err := f.entryUC.CreateEntry(ctx, credit("owner-1", domain.CategorySales, 1000))
	if err != nil {
		t.Fatalf("create credit: %v", err)
	}

	cashEntry, err := f.entryUC.CreateEntry(ctx, cashIn("owner-1", 100))
	if err != nil {
		t.Fatalf("create cash in: %v", err)
	}

	tests := []struct {
		name    string
		input   usecase.SettleInput
		wantErr error
	}{
		{
			name: "non-obligation target",
			input: usecase.SettleInput{
				OwnerID:       "owner-1",
				ObligationID:  cashEntry.Entry.ID,
				Amount:        decimal.NewFromInt(100),
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: domain.ErrNotSettleable,
		},
		{
			name: "zero amount",
			input: usecase.SettleInput{
				OwnerID:       "owner-1",
				ObligationID:  creditEntry.Entry.ID,
				Amount:        decimal.Zero,
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "amount above remaining",
			input: usecase.SettleInput{
				OwnerID:       "owner-1",
				ObligationID:  creditEntry.Entry.ID,
				Amount:        decimal.NewFromInt(1001),
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: domain.ErrSettleExceedsRemaining,
		},
		{
			name: "credit settlement needs a cash payment method",
			input: usecase.SettleInput{
				OwnerID:       "owner-1",
				ObligationID:  creditEntry.Entry.ID,
				Amount:        decimal.NewFromInt(100),
				PaymentMethod: domain.PaymentNone,
			},
			wantErr: domain.ErrInvalidPaymentMethod,
		},
		{
			name: "unknown obligation",
			input: usecase.SettleInput{
				OwnerID:       "owner-1",
				ObligationID:  "missing",
				Amount:        decimal.NewFromInt(100),
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: domain.ErrEntryNotFound,
		},
		{
			name: "other owner's obligation is invisible",
			input: usecase.SettleInput{
				OwnerID:       "owner-2",
				ObligationID:  creditEntry.Entry.ID,
				Amount:        decimal.NewFromInt(100),
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: domain.ErrEntryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.SettlementDate = time.Now()

			_, err := f.settleUC.Settle(ctx, tt.input)
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("settled obligation is terminal", func(t *testing.T) {
		_, err := f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   creditEntry.Entry.ID,
			Amount:         decimal.NewFromInt(1000),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentCash,
		})
		if err != nil {
			t.Fatalf("settle: %v", err)
		}

		_, err = f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   creditEntry.Entry.ID,
			Amount:         decimal.NewFromInt(1),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentCash,
		})
		if err != domain.ErrAlreadySettled {
			t.Fatalf("expected ErrAlreadySettled, got %v", err)
		}
	})

	// The settlement-bound invariant: companions tied to one obligation
	// can never exceed its face value.
	t.Run("partial settlements never exceed the face value", func(t *testing.T) {
		f := newLedgerFixture()

		created, err := f.entryUC.CreateEntry(ctx, credit("owner-1", domain.CategorySales, 100))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		for _, amount := range []int64{60, 30} {
			_, err := f.settleUC.Settle(ctx, usecase.SettleInput{
				OwnerID:        "owner-1",
				ObligationID:   created.Entry.ID,
				Amount:         decimal.NewFromInt(amount),
				SettlementDate: time.Now(),
				PaymentMethod:  domain.PaymentCash,
			})
			if err != nil {
				t.Fatalf("settle %d: %v", amount, err)
			}
		}

		_, err = f.settleUC.Settle(ctx, usecase.SettleInput{
			OwnerID:        "owner-1",
			ObligationID:   created.Entry.ID,
			Amount:         decimal.NewFromInt(20),
			SettlementDate: time.Now(),
			PaymentMethod:  domain.PaymentCash,
		})
		if err != domain.ErrSettleExceedsRemaining {
			t.Fatalf("expected ErrSettleExceedsRemaining, got %v", err)
		}
	})
}

func TestSettlementUseCase_AccrualStaysConsistent(t *testing.T) {
	// Scenarios A-D from the ledger rules: accrual and cash recognize the
	// same facts at different times, and never double count.
	ctx := context.Background()
	f := newLedgerFixture()

	profitOf := func() domain.ProfitMetrics {
		entries, err := f.entryRepo.List(ctx, "owner-1", domain.EntryFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}

		return domain.ComputeProfit(entries)
	}

	// A: credit sale recognizes revenue immediately, cash unchanged.
	created, err := f.entryUC.CreateEntry(ctx, credit("owner-1", domain.CategorySales, 1000))
	if err != nil {
		t.Fatalf("create credit: %v", err)
	}

	if m := profitOf(); !m.Revenue.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("A: expected revenue 1000, got %s", m.Revenue)
	}

	if !created.NewBalance.IsZero() {
		t.Fatalf("A: expected cash unchanged, got %s", created.NewBalance)
	}

	// B: settling the credit moves cash but not revenue.
	settled, err := f.settleUC.Settle(ctx, usecase.SettleInput{
		OwnerID:        "owner-1",
		ObligationID:   created.Entry.ID,
		Amount:         decimal.NewFromInt(1000),
		SettlementDate: time.Now(),
		PaymentMethod:  domain.PaymentCash,
	})
	if err != nil {
		t.Fatalf("settle credit: %v", err)
	}

	if !settled.NewBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("B: expected cash 1000, got %s", settled.NewBalance)
	}

	if m := profitOf(); !m.Revenue.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("B: revenue must not double count, got %s", m.Revenue)
	}

	// C: a COGS advance moves cash immediately but recognizes nothing.
	adv, err := f.entryUC.CreateEntry(ctx, advance("owner-1", domain.CategoryCOGS, 500))
	if err != nil {
		t.Fatalf("create advance: %v", err)
	}

	if !adv.NewBalance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("C: expected cash 500, got %s", adv.NewBalance)
	}

	if m := profitOf(); !m.COGS.IsZero() {
		t.Fatalf("C: expected no COGS yet, got %s", m.COGS)
	}

	// D: settling the advance recognizes the expense without moving cash.
	advSettled, err := f.settleUC.Settle(ctx, usecase.SettleInput{
		OwnerID:        "owner-1",
		ObligationID:   adv.Entry.ID,
		Amount:         decimal.NewFromInt(500),
		SettlementDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("settle advance: %v", err)
	}

	if !advSettled.NewBalance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("D: expected cash unchanged at 500, got %s", advSettled.NewBalance)
	}

	if m := profitOf(); !m.COGS.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("D: expected COGS 500, got %s", m.COGS)
	}

	f.assertBalanceConsistent(t, "owner-1")
}
