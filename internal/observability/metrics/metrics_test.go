package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New(NewRegistry(), Config{ServiceName: "helpdesk", Environment: "test"})
	require.NoError(t, err)
	return m
}

func TestRecordMutation(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordMutation("tickets", "created", OutcomeApplied)
	m.RecordMutation("tickets", "created", OutcomeApplied)
	m.RecordMutation("users", "deleted", OutcomeRejected)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.storeMutations.WithLabelValues("tickets", "created", OutcomeApplied)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storeMutations.WithLabelValues("users", "deleted", OutcomeRejected)))
}

func TestGatewayStatusClass(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordGatewayRequest("GET", 404, time.Millisecond)
	m.RecordGatewayRequest("GET", 0, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.gatewayRequests.WithLabelValues("GET", "4xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.gatewayRequests.WithLabelValues("GET", "transport_error")))
}

func TestRecordJobRunCountsErrors(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordJobRun("contract_expiry", nil)
	m.RecordJobRun("contract_expiry", errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.jobRuns.WithLabelValues("contract_expiry")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobErrors.WithLabelValues("contract_expiry")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMutation("tickets", "created", OutcomeApplied)
		m.RecordSummaryCacheHit()
		m.RecordGatewayRequest("GET", 200, time.Second)
	})
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := NewRegistry()
	_, err := New(reg, Config{})
	require.NoError(t, err)
	_, err = New(reg, Config{})
	assert.Error(t, err)
}
