package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveOracle("generate", time.Second, nil)
	m.Fallback("seniority")
	m.GateEnqueued()
	m.GateAdmitted(time.Millisecond)
	m.CacheLookup("hit")
}

func TestMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOracle("generate", 10*time.Millisecond, nil)
	m.ObserveOracle("generate", 10*time.Millisecond, errors.New("boom"))
	m.Fallback("levels")
	m.Fallback("levels")
	m.GateEnqueued()
	m.GateEnqueued()
	m.GateAdmitted(time.Millisecond)

	if got := testutil.ToFloat64(m.oracleCalls.WithLabelValues("generate", "error")); got != 1 {
		t.Errorf("error calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("levels")); got != 2 {
		t.Errorf("fallbacks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.gateQueue); got != 1 {
		t.Errorf("queue depth = %v, want 1", got)
	}
}
