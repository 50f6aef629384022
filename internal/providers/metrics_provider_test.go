package providers

import (
	"minedash/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.ObserveEsiRequest("mining", time.Millisecond)
	m.IncLedgerUpdates("ok")
	m.AddRecordsIngested(3)
}

func TestMetricsProvider_Counters(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	mp, ok := m.(*MetricsProvider)
	require.True(t, ok)

	m.IncRequestsTotal("/update", 200)
	m.IncRequestsTotal("/update", 404)
	m.IncRequestsTotal("/update", 201)
	m.ObserveRequestDuration("/update", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.ObserveEsiRequest("mining", 20*time.Millisecond)
	m.IncLedgerUpdates("ok")
	m.AddRecordsIngested(7)
	m.AddRecordsIngested(0)

	assert.Equal(t, float64(2), testutil.ToFloat64(mp.requestsTotal.WithLabelValues("/update", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mp.requestsTotal.WithLabelValues("/update", "4xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mp.cacheHits))
	assert.Equal(t, float64(2), testutil.ToFloat64(mp.cacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(mp.ledgerUpdates.WithLabelValues("ok")))
	assert.Equal(t, float64(7), testutil.ToFloat64(mp.recordsIngested))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{502, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
