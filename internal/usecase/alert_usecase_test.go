package usecase_test

import (
	"context"
	"testing"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestAlertUseCase_ListAndDismiss(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	alertUC := usecase.NewAlertUseCase(f.alertRepo)

	// A 60,000 Opex spend fires HIGH_EXPENSE and drives cash negative.
	mustCreate(t, f, cashOut("owner-1", domain.CategoryOpex, 60000))

	alerts, err := alertUC.ListAlerts(ctx, usecase.ListAlertsInput{OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(alerts) < 2 {
		t.Fatalf("expected at least 2 alerts, got %d", len(alerts))
	}

	var highExpense *domain.Alert
	for _, a := range alerts {
		if a.Type == domain.AlertHighExpense {
			highExpense = a
		}
	}

	if highExpense == nil {
		t.Fatal("expected a HIGH_EXPENSE alert")
	}

	if err := alertUC.DismissAlert(ctx, highExpense.ID, "owner-1"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	active, err := alertUC.ListAlerts(ctx, usecase.ListAlertsInput{OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}

	for _, a := range active {
		if a.ID == highExpense.ID {
			t.Fatal("dismissed alert still listed as active")
		}
	}

	all, err := alertUC.ListAlerts(ctx, usecase.ListAlertsInput{OwnerID: "owner-1", IncludeDismissed: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}

	if len(all) != len(active)+1 {
		t.Fatalf("expected %d alerts with dismissed included, got %d", len(active)+1, len(all))
	}

	t.Run("dismissing an unknown alert fails", func(t *testing.T) {
		if err := alertUC.DismissAlert(ctx, "missing", "owner-1"); err != domain.ErrAlertNotFound {
			t.Fatalf("expected ErrAlertNotFound, got %v", err)
		}
	})

	t.Run("alerts are owner scoped", func(t *testing.T) {
		other, err := alertUC.ListAlerts(ctx, usecase.ListAlertsInput{OwnerID: "owner-2"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}

		if len(other) != 0 {
			t.Fatalf("expected no alerts for owner-2, got %d", len(other))
		}
	})
}
