package lib

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestUpdateBoundaryCall(t *testing.T) {
	m := NewMetricsServer(DefaultMetricsConfig(), NewNullLogger())
	m.UpdateBoundaryCall("Sign", nil, time.Millisecond, 3)
	m.UpdateBoundaryCall("Sign", ErrInvalidArgument(), time.Millisecond, 3)
	m.UpdateBoundaryCall("Verify", ErrPanic("boom"), time.Millisecond, 2)
	require.Equal(t, float64(2), testutil.ToFloat64(m.Calls.WithLabelValues("Sign")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("Sign", string(MainModule))))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("Verify", string(BoundaryModule))))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Panics))
	require.Equal(t, float64(2), testutil.ToFloat64(m.LiveHandles))
}

func TestUpdateAddressScan(t *testing.T) {
	m := NewMetricsServer(DefaultMetricsConfig(), NewNullLogger())
	m.UpdateAddressScan(4, 20, time.Second)
	m.UpdateAddressScan(1, 5, time.Second)
	require.Equal(t, float64(5), testutil.ToFloat64(m.AddressesFound))
	require.Equal(t, float64(25), testutil.ToFloat64(m.UsageChecks))
}

func TestMetricsHandler(t *testing.T) {
	// two instances must not collide on registration
	_ = NewMetricsServer(DefaultMetricsConfig(), NewNullLogger())
	m := NewMetricsServer(DefaultMetricsConfig(), NewNullLogger())
	m.UpdateBoundaryCall("Fee", nil, time.Microsecond, 0)
	server := httptest.NewServer(m.Handler())
	defer server.Close()
	resp, err := server.Client().Get(server.URL + metricsPattern)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `cardano_boundary_calls_total{op="Fee"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Start()
		m.UpdateBoundaryCall("Sign", ErrInvalidArgument(), 0, 0)
		m.UpdateAddressScan(1, 1, 0)
		m.Stop()
	})
}
