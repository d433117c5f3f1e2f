package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIntakeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveSubmission("succeeded")
	m.ObserveSubmission("succeeded")
	m.ObserveDispatch("failed")
	m.ObserveAuditFailure()
	m.ObserveStage("persist", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatchTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditFailuresTotal))
}

func TestIntakeMetricsNilSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveSubmission("x")
	m.ObserveDispatch("x")
	m.ObserveAuditFailure()
	m.ObserveStage("x", 0.1)
}
