package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records sale and printing outcomes. A nil *POSMetrics is valid
// and records nothing.
type POSMetrics struct {
	committed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	prints    *prometheus.CounterVec
	sessions  *prometheus.GaugeVec
}

// NewPOSMetrics registers the point-of-sale metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_transactions_committed_total",
		Help: "Committed sales by provider and entry kind.",
	}, []string{"provider", "kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_transactions_failed_total",
		Help: "Failed sales by the step that failed.",
	}, []string{"provider", "stage"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_transaction_duration_seconds",
		Help:    "Duration of sale commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	prints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_receipt_prints_total",
		Help: "Receipt print attempts by method and outcome.",
	}, []string{"method", "outcome"})
	sessions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pos_active_sessions",
		Help: "Open point-of-sale sessions by provider.",
	}, []string{"provider"})
	reg.MustRegister(committed, failed, duration, prints, sessions)
	return &POSMetrics{
		committed: committed,
		failed:    failed,
		duration:  duration,
		prints:    prints,
		sessions:  sessions,
	}
}

func (m *POSMetrics) IncCommitted(provider string, manual bool) {
	if m == nil || m.committed == nil {
		return
	}
	kind := "checkout"
	if manual {
		kind = "manual"
	}
	m.committed.WithLabelValues(normalizeLabel(provider), kind).Inc()
}

func (m *POSMetrics) IncFailed(provider, stage string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(provider), normalizeLabel(stage)).Inc()
}

func (m *POSMetrics) ObserveCommit(provider string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(provider)).Observe(d.Seconds())
}

func (m *POSMetrics) IncPrint(method string, ok bool) {
	if m == nil || m.prints == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.prints.WithLabelValues(normalizeLabel(method), outcome).Inc()
}

func (m *POSMetrics) AddSessions(provider string, delta float64) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.WithLabelValues(normalizeLabel(provider)).Add(delta)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
