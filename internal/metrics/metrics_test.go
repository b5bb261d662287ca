package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMetrics_RecordMethodsDoNotPanic exercises every recording method once
// against a single registered collector set. promauto registers against the
// default registry, so only one *Metrics is constructed for this package's
// whole test binary.
func TestMetrics_RecordMethodsDoNotPanic(t *testing.T) {
	m := New()
	require.NotNil(t, m)

	require.NotPanics(t, func() {
		m.RecordAdapterCall("intelligence-a", "ok", 0.25)
		m.RecordCacheLookup("hit")
		m.RecordBreakerStateChange("intelligence-a", "open")
		m.RecordCheckOutcome("vessel_current_sanctions", "high")
		m.RecordScreening("sts_bunkering", "intercept", 1.5)
		m.RecordReconciliation(true)
		m.RecordReconciliation(false)
	})
}
