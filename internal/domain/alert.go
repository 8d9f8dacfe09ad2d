package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AlertType identifies the threshold condition that fired.
type AlertType string

const (
	AlertHighExpense          AlertType = "HIGH_EXPENSE"
	AlertLowCash              AlertType = "LOW_CASH"
	AlertNegativeCash         AlertType = "NEGATIVE_CASH"
	AlertMonthlyExpenseWarn   AlertType = "MONTHLY_EXPENSE_OVER_REVENUE"
	AlertMonthlyExpenseSevere AlertType = "MONTHLY_EXPENSE_FAR_OVER_REVENUE"
)

// Severity grades an alert.
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert thresholds.
var (
	HighExpenseThreshold = decimal.NewFromInt(50000)
	LowCashThreshold     = decimal.NewFromInt(10000)

	// Monthly expenses beyond 150% of revenue escalate to critical.
	monthlyExpenseCriticalRatio = decimal.NewFromFloat(1.5)
)

// Alert is a durable, independently dismissible advisory record.
type Alert struct {
	ID        string
	OwnerID   string
	EntryID   *string
	Type      AlertType
	Severity  Severity
	Message   string
	Dismissed bool
	CreatedAt time.Time
}

// EvaluateAlerts inspects the just-created entry, the current cash balance
// and the current month's entries, and returns the alerts that fire. It is
// stateless: it never re-derives alerts for past entries.
func EvaluateAlerts(latest *Entry, balance decimal.Decimal, monthEntries []*Entry) []*Alert {
	var alerts []*Alert

	if isExpenseCategory(latest.Category) && latest.Amount.GreaterThan(HighExpenseThreshold) {
		alerts = append(alerts, &Alert{
			EntryID:  &latest.ID,
			Type:     AlertHighExpense,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("single %s expense of %s exceeds %s", latest.Category, latest.Amount, HighExpenseThreshold),
		})
	}

	switch {
	case balance.IsNegative():
		alerts = append(alerts, &Alert{
			Type:     AlertNegativeCash,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("cash balance is negative: %s", balance),
		})
	case balance.LessThan(LowCashThreshold):
		alerts = append(alerts, &Alert{
			Type:     AlertLowCash,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("cash balance %s is below %s", balance, LowCashThreshold),
		})
	}

	revenue, expense := monthTotals(monthEntries)
	if expense.GreaterThan(revenue) {
		if expense.GreaterThan(revenue.Mul(monthlyExpenseCriticalRatio)) {
			alerts = append(alerts, &Alert{
				Type:     AlertMonthlyExpenseSevere,
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("monthly expenses %s exceed 150%% of revenue %s", expense, revenue),
			})
		} else {
			alerts = append(alerts, &Alert{
				Type:     AlertMonthlyExpenseWarn,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("monthly expenses %s exceed revenue %s", expense, revenue),
			})
		}
	}

	return alerts
}

func isExpenseCategory(c Category) bool {
	return c == CategoryCOGS || c == CategoryOpex || c == CategoryAssets
}

// monthTotals sums face amounts per side. Settlement companions are skipped
// so a settled obligation is not counted twice within the month.
func monthTotals(entries []*Entry) (revenue, expense decimal.Decimal) {
	revenue = decimal.Zero
	expense = decimal.Zero

	for _, e := range entries {
		if e.IsSettlement {
			continue
		}

		switch e.Category {
		case CategorySales:
			revenue = revenue.Add(e.Amount)
		case CategoryCOGS, CategoryOpex:
			expense = expense.Add(e.Amount)
		}
	}

	return revenue, expense
}

// MonthWindow returns the [start, end) bounds of the calendar month
// containing t, in UTC.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	return start, start.AddDate(0, 1, 0)
}
