// Package metrics holds the Prometheus collectors for the screening
// pipeline: adapter latency, cache hit ratio, circuit breaker state
// transitions, and check outcome counts. Grounded on the teacher's
// internal/escrow/metrics.go NewMetrics()/promauto registration shape,
// relabeled from the escrow domain to the risk-screening domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the screening pipeline records
// to. One instance is created at process start and passed to the API server,
// whose handlers record screening and reconciliation outcomes; nothing in the
// adapters, cache, circuit breakers, or orchestrator records to it.
type Metrics struct {
	AdapterCallTotal    *prometheus.CounterVec
	AdapterCallDuration *prometheus.HistogramVec

	CacheLookupTotal *prometheus.CounterVec

	BreakerStateChanges *prometheus.CounterVec

	CheckOutcomeTotal *prometheus.CounterVec

	ScreeningDuration *prometheus.HistogramVec
	ScreeningTotal    *prometheus.CounterVec

	ReconciliationTotal *prometheus.CounterVec
}

// New creates and registers every collector. Safe to call once per process;
// calling it twice against the default registry will panic on duplicate
// registration, matching promauto's behavior.
func New() *Metrics {
	return &Metrics{
		AdapterCallTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscreen_adapter_calls_total",
				Help: "Total upstream adapter calls, by provider and outcome",
			},
			[]string{"provider", "outcome"}, // outcome: ok, auth_denied, http_error, timeout, decode_error
		),
		AdapterCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskscreen_adapter_call_duration_seconds",
				Help:    "Upstream adapter call latency, by provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		CacheLookupTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscreen_cache_lookups_total",
				Help: "Coalescing cache lookups, split by hit/miss/coalesced",
			},
			[]string{"result"}, // hit, miss, coalesced
		),
		BreakerStateChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscreen_circuit_breaker_state_changes_total",
				Help: "Circuit breaker state transitions, by breaker name and new state",
			},
			[]string{"breaker", "state"},
		),
		CheckOutcomeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscreen_check_outcomes_total",
				Help: "Atomic/composite check evaluations, by check id and resulting risk level",
			},
			[]string{"check_id", "level"},
		),
		ScreeningDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskscreen_screening_duration_seconds",
				Help:    "Full screening session duration, by vertical",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"vertical"},
		),
		ScreeningTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscreen_screenings_total",
				Help: "Completed screening sessions, by vertical and overall status",
			},
			[]string{"vertical", "overall"},
		),
		ReconciliationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscreen_reconciliations_total",
				Help: "Approval reconciliation runs, by whether a new change-log row was appended",
			},
			[]string{"appended"},
		),
	}
}

// RecordAdapterCall records one upstream call's outcome and latency.
func (m *Metrics) RecordAdapterCall(provider, outcome string, seconds float64) {
	m.AdapterCallTotal.WithLabelValues(provider, outcome).Inc()
	m.AdapterCallDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordCacheLookup records a single coalescing-cache lookup result.
func (m *Metrics) RecordCacheLookup(result string) {
	m.CacheLookupTotal.WithLabelValues(result).Inc()
}

// RecordBreakerStateChange records a circuit breaker transition.
func (m *Metrics) RecordBreakerStateChange(breaker, state string) {
	m.BreakerStateChanges.WithLabelValues(breaker, state).Inc()
}

// RecordCheckOutcome records one check evaluation's resulting risk level.
func (m *Metrics) RecordCheckOutcome(checkID, level string) {
	m.CheckOutcomeTotal.WithLabelValues(checkID, level).Inc()
}

// RecordScreening records a completed screening session.
func (m *Metrics) RecordScreening(vertical, overall string, seconds float64) {
	m.ScreeningDuration.WithLabelValues(vertical).Observe(seconds)
	m.ScreeningTotal.WithLabelValues(vertical, overall).Inc()
}

// RecordReconciliation records one reconciliation run's outcome.
func (m *Metrics) RecordReconciliation(appended bool) {
	label := "false"
	if appended {
		label = "true"
	}
	m.ReconciliationTotal.WithLabelValues(label).Inc()
}
