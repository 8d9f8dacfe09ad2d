package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus metrics. All recording
// methods are safe on a nil receiver so tests can pass nil.
type Metrics struct {
	entriesCreated        *prometheus.CounterVec
	entriesUpdated        prometheus.Counter
	entriesDeleted        prometheus.Counter
	settlementsProcessed  *prometheus.CounterVec
	alertsFired           *prometheus.CounterVec
	balanceRecalculations prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		entriesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashbook_entries_created_total",
			Help: "Total number of ledger entries created, by entry type",
		}, []string{"entry_type"}),
		entriesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_entries_updated_total",
			Help: "Total number of ledger entries updated",
		}),
		entriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),
		settlementsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashbook_settlements_processed_total",
			Help: "Total number of settlements processed, by obligation type",
		}, []string{"obligation_type"}),
		alertsFired: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cashbook_alerts_fired_total",
			Help: "Total number of threshold alerts fired, by alert type",
		}, []string{"alert_type"}),
		balanceRecalculations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_balance_recalculations_total",
			Help: "Total number of full balance recomputations",
		}),
	}
}

// EntryCreated records an entry creation.
func (m *Metrics) EntryCreated(entryType string) {
	if m == nil {
		return
	}

	m.entriesCreated.WithLabelValues(entryType).Inc()
}

// EntryUpdated records an entry update.
func (m *Metrics) EntryUpdated() {
	if m == nil {
		return
	}

	m.entriesUpdated.Inc()
}

// EntryDeleted records an entry deletion.
func (m *Metrics) EntryDeleted() {
	if m == nil {
		return
	}

	m.entriesDeleted.Inc()
}

// SettlementProcessed records a settlement.
func (m *Metrics) SettlementProcessed(obligationType string) {
	if m == nil {
		return
	}

	m.settlementsProcessed.WithLabelValues(obligationType).Inc()
}

// AlertFired records a fired alert.
func (m *Metrics) AlertFired(alertType string) {
	if m == nil {
		return
	}

	m.alertsFired.WithLabelValues(alertType).Inc()
}

// BalanceRecalculated records a full balance recomputation.
func (m *Metrics) BalanceRecalculated() {
	if m == nil {
		return
	}

	m.balanceRecalculations.Inc()
}
