package providers

import (
	"minedash/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	ObserveEsiRequest(operation string, duration time.Duration)
	IncLedgerUpdates(outcome string)
	AddRecordsIngested(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	esiDuration         *prometheus.HistogramVec
	ledgerUpdates       *prometheus.CounterVec
	recordsIngested     prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveEsiRequest(operation string, duration time.Duration) {
	m.esiDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncLedgerUpdates(outcome string) {
	m.ledgerUpdates.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) AddRecordsIngested(count int) {
	if count > 0 {
		m.recordsIngested.Add(float64(count))
	}
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minedash_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minedash_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minedash_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minedash_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minedash_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		esiDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minedash_esi_request_duration_seconds",
			Help:    "Duration of ESI and SSO requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		ledgerUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "minedash_ledger_updates_total",
			Help: "Total number of ledger updates by outcome",
		}, []string{"outcome"}),

		recordsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minedash_records_ingested_total",
			Help: "Total number of new mining records stored",
		}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveEsiRequest(_ string, _ time.Duration)      {}
func (n *noopMetrics) IncLedgerUpdates(_ string)                        {}
func (n *noopMetrics) AddRecordsIngested(_ int)                         {}
