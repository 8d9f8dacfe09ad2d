package domain

import "github.com/shopspring/decimal"

// ProfitMetrics holds accrual-basis profit figures derived from the entry
// set. HasMargin is false when revenue is zero and the margin is undefined.
type ProfitMetrics struct {
	Revenue      decimal.Decimal
	COGS         decimal.Decimal
	Opex         decimal.Decimal
	GrossProfit  decimal.Decimal
	NetProfit    decimal.Decimal
	ProfitMargin decimal.Decimal
	HasMargin    bool
}

// ComputeProfit derives recognized revenue and expenses from a set of
// entries on an accrual schedule, which differs from the cash schedule:
//
//   - Credit counts at invoice time, regardless of settlement state.
//   - Advance counts only once settled, through its settlement companions.
//   - Credit-settlement companions are skipped to avoid double counting
//     the originating Credit entry.
//   - Assets never enter profit.
func ComputeProfit(entries []*Entry) ProfitMetrics {
	revenue := decimal.Zero
	cogs := decimal.Zero
	opex := decimal.Zero

	for _, e := range entries {
		if e.Category == CategoryAssets {
			continue
		}

		if !recognized(e) {
			continue
		}

		switch e.Category {
		case CategorySales:
			revenue = revenue.Add(e.Amount)
		case CategoryCOGS:
			cogs = cogs.Add(e.Amount)
		case CategoryOpex:
			opex = opex.Add(e.Amount)
		}
	}

	gross := revenue.Sub(cogs)
	net := gross.Sub(opex)

	m := ProfitMetrics{
		Revenue:     revenue,
		COGS:        cogs,
		Opex:        opex,
		GrossProfit: gross,
		NetProfit:   net,
	}

	if revenue.IsPositive() {
		m.ProfitMargin = net.Div(revenue)
		m.HasMargin = true
	}

	return m
}

// recognized reports whether the entry counts toward accrual profit.
func recognized(e *Entry) bool {
	switch e.Type {
	case EntryCashIn, EntryCashOut:
		// Credit-settlement companions were already counted through the
		// originating Credit entry.
		return !e.IsSettlement
	case EntryCredit:
		return true
	case EntryAdvanceSettlementReceived, EntryAdvanceSettlementPaid:
		return true
	default:
		// The Advance entry itself is cash moved early but not yet earned;
		// legacy credit-settlement subtypes mirror the companion exclusion.
		return false
	}
}
