package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"igmond/internal/services"
	"igmond/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	AddChecks(n int)
	IncAlerts(kind string)
	ObserveFetchDuration(duration time.Duration)
	ObserveCycleDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	checksTotal         prometheus.Counter
	alertsTotal         *prometheus.CounterVec
	fetchDuration       prometheus.Histogram
	cycleDuration       prometheus.Histogram
	persistenceDuration prometheus.Histogram
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

func (m *MetricsProvider) AddChecks(n int) {
	m.checksTotal.Add(float64(n))
}

func (m *MetricsProvider) IncAlerts(kind string) {
	m.alertsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(duration time.Duration) {
	m.fetchDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveCycleDuration(duration time.Duration) {
	m.cycleDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
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

func NewMetricsProvider(conf *structures.Config, store services.StoreServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "igm_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "igm_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "igm_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "igm_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		checksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "igm_checks_total",
			Help: "Total number of username checks performed",
		}),

		alertsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "igm_alerts_total",
			Help: "Total number of status-change alerts sent",
		}, []string{"kind"}),

		fetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "igm_fetch_duration_seconds",
			Help:    "Profile fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		cycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "igm_cycle_duration_seconds",
			Help:    "Full check cycle duration in seconds",
			Buckets: []float64{.5, 1, 5, 15, 60, 120, 300},
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "igm_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "igm_watched_usernames",
		Help: "Current number of distinct watched usernames",
	}, func() float64 {
		return float64(store.CountWatched())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "igm_subscribers",
		Help: "Current number of known subscribers",
	}, func() float64 {
		return float64(store.CountSubscribers())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) AddChecks(_ int)                                  {}
func (n *noopMetrics) IncAlerts(_ string)                               {}
func (n *noopMetrics) ObserveFetchDuration(_ time.Duration)             {}
func (n *noopMetrics) ObserveCycleDuration(_ time.Duration)             {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
