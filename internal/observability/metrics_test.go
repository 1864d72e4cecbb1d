package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/applications", "get", 200, 5*time.Millisecond)
	m.RecordRequest("/api/applications", "GET", 200, 5*time.Millisecond)
	m.RecordError("NOT_FOUND")
	m.RecordApplicationEvent("application_created")

	require.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/applications", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpErrors.WithLabelValues("NOT_FOUND")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.applicationEvents.WithLabelValues("application_created")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("X")
	m.RecordApplicationEvent("x")
}
