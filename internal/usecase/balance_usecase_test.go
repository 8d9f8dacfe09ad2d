package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

func TestBalanceUseCase_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown owner has a zero balance", func(t *testing.T) {
		f := newLedgerFixture()

		balance, err := f.balanceUC.GetBalance(ctx, "owner-1")
		if err != nil {
			t.Fatalf("get balance: %v", err)
		}

		if !balance.Amount.IsZero() {
			t.Fatalf("expected zero, got %s", balance.Amount)
		}
	})

	t.Run("tracks mutations", func(t *testing.T) {
		f := newLedgerFixture()

		mustCreate(t, f, cashIn("owner-1", 300))
		mustCreate(t, f, cashOut("owner-1", domain.CategoryOpex, 120))

		balance, err := f.balanceUC.GetBalance(ctx, "owner-1")
		if err != nil {
			t.Fatalf("get balance: %v", err)
		}

		if !balance.Amount.Equal(decimal.NewFromInt(180)) {
			t.Fatalf("expected 180, got %s", balance.Amount)
		}
	})
}

func TestBalanceUseCase_Recalculate(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()

	mustCreate(t, f, cashIn("owner-1", 1000))
	mustCreate(t, f, cashOut("owner-1", domain.CategoryCOGS, 400))
	mustCreate(t, f, credit("owner-1", domain.CategorySales, 777))
	mustCreate(t, f, advance("owner-1", domain.CategoryCOGS, 100))

	want := decimal.NewFromInt(500)

	// Recalculation is idempotent and repairs a corrupted stored value.
	for i := 0; i < 2; i++ {
		total, err := f.balanceUC.Recalculate(ctx, "owner-1")
		if err != nil {
			t.Fatalf("recalculate %d: %v", i, err)
		}

		if !total.Equal(want) {
			t.Fatalf("expected %s, got %s", want, total)
		}
	}

	if err := f.balanceRepo.Set(ctx, "owner-1", decimal.NewFromInt(-9999), time.Now().UTC()); err != nil {
		t.Fatalf("corrupt balance: %v", err)
	}

	total, err := f.balanceUC.Recalculate(ctx, "owner-1")
	if err != nil {
		t.Fatalf("repair recalculate: %v", err)
	}

	if !total.Equal(want) {
		t.Fatalf("expected repaired %s, got %s", want, total)
	}

	balance, err := f.balanceUC.GetBalance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	if !balance.Amount.Equal(want) {
		t.Fatalf("expected stored %s, got %s", want, balance.Amount)
	}
}
