package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records purchase-workflow transitions and ledger activity.
type WorkflowMetrics struct {
	transitions   *prometheus.CounterVec
	ledgerEntries *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_request_transitions_total",
		Help: "Purchase request state transitions by action and outcome.",
	}, []string{"action", "outcome"})
	ledgerEntries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_ledger_entries_total",
		Help: "Stock ledger entries created, by kind.",
	}, []string{"kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "purchase_request_transition_duration_seconds",
		Help:    "Duration of purchase request transitions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	reg.MustRegister(transitions, ledgerEntries, duration)
	return &WorkflowMetrics{
		transitions:   transitions,
		ledgerEntries: ledgerEntries,
		duration:      duration,
	}
}

// ObserveTransition records one transition attempt and its duration.
func (m *WorkflowMetrics) ObserveTransition(action string, err error, elapsed time.Duration) {
	if m == nil || m.transitions == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.transitions.WithLabelValues(normalizeLabel(action), outcome).Inc()
	m.duration.WithLabelValues(normalizeLabel(action)).Observe(elapsed.Seconds())
}

// IncLedgerEntry counts a newly created ledger entry.
func (m *WorkflowMetrics) IncLedgerEntry(kind string) {
	if m == nil || m.ledgerEntries == nil {
		return
	}
	m.ledgerEntries.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
