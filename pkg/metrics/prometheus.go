package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the standings service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ranking metrics
	rankingRuns       *prometheus.CounterVec
	rankingDuration   *prometheus.HistogramVec
	predictionsScored *prometheus.CounterVec
	playersRanked     *prometheus.GaugeVec
	unknownCriteria   *prometheus.GaugeVec

	// Data and cache metrics
	loadErrors    *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec

	// Refresh queue and worker metrics
	refreshQueueSize     prometheus.Gauge
	refreshQueueCapacity prometheus.Gauge
	refreshJobs          *prometheus.CounterVec
	refreshDuration      prometheus.Histogram
	refreshWorkers       prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "prode",
		subsystem:        "standings",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.rankingRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ranking_runs_total",
		Help:        "Total number of leaderboard computations by month",
		ConstLabels: m.constLabels,
	}, []string{"month"})

	m.rankingDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ranking_duration_milliseconds",
		Help:        "Time to load, score and rank one month in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"month"})

	m.predictionsScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictions_scored_total",
		Help:        "Predictions classified during ranking runs, by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.playersRanked = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_ranked",
		Help:        "Number of players in the last computed leaderboard of a month",
		ConstLabels: m.constLabels,
	}, []string{"month"})

	m.unknownCriteria = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unknown_tie_breakers",
		Help:        "Configured tie-breaker keys that do not name a known metric",
		ConstLabels: m.constLabels,
	}, []string{"month"})

	m.loadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "data_load_errors_total",
		Help:        "Failures loading a month's matchday data",
		ConstLabels: m.constLabels,
	}, []string{"month"})

	m.cacheRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cache_requests_total",
		Help:        "Leaderboard cache lookups by result (hit, miss, error)",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.refreshQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_queue_size",
		Help:        "Refresh jobs waiting in the queue",
		ConstLabels: m.constLabels,
	})

	m.refreshQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_queue_capacity",
		Help:        "Maximum number of queued refresh jobs",
		ConstLabels: m.constLabels,
	})

	m.refreshJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_jobs_total",
		Help:        "Refresh jobs by result (ok, error, dropped)",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_duration_milliseconds",
		Help:        "Time to recompute one month in a refresh worker",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.refreshWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_workers",
		Help:        "Number of running refresh workers",
		ConstLabels: m.constLabels,
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds (user experience)",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Errors by component and error type",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// Ranking Metrics Functions.

// RecordRankingRun counts one leaderboard computation and its duration.
func RecordRankingRun(month string, durationMs float64) {
	globalManager.rankingRuns.WithLabelValues(month).Inc()
	globalManager.rankingDuration.WithLabelValues(month).Observe(durationMs)
}

// RecordPredictionScored increments the counter for one classified prediction.
func RecordPredictionScored(outcome string) {
	globalManager.predictionsScored.WithLabelValues(outcome).Inc()
}

// UpdatePlayersRanked sets the size of a month's last leaderboard.
func UpdatePlayersRanked(month string, count int) {
	globalManager.playersRanked.WithLabelValues(month).Set(float64(count))
}

// UpdateUnknownTieBreakers sets how many configured keys of a month are unknown.
func UpdateUnknownTieBreakers(month string, count int) {
	globalManager.unknownCriteria.WithLabelValues(month).Set(float64(count))
}

// RecordLoadError increments the data load failure counter.
func RecordLoadError(month string) {
	globalManager.loadErrors.WithLabelValues(month).Inc()
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheRequests.WithLabelValues("hit").Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheRequests.WithLabelValues("miss").Inc()
}

// RecordCacheError increments the cache error counter.
func RecordCacheError() {
	globalManager.cacheRequests.WithLabelValues("error").Inc()
}

// Refresh Metrics Functions.

// UpdateRefreshQueueSize sets the number of queued refresh jobs.
func UpdateRefreshQueueSize(size int) {
	globalManager.refreshQueueSize.Set(float64(size))
}

// UpdateRefreshQueueCapacity sets the refresh queue capacity.
func UpdateRefreshQueueCapacity(capacity int) {
	globalManager.refreshQueueCapacity.Set(float64(capacity))
}

// RecordRefreshJob counts a refresh job by result and observes its duration.
// Dropped jobs never ran, so pass a zero duration and it is not observed.
func RecordRefreshJob(result string, durationMs float64) {
	globalManager.refreshJobs.WithLabelValues(result).Inc()
	if durationMs > 0 {
		globalManager.refreshDuration.Observe(durationMs)
	}
}

// UpdateRefreshWorkers sets the number of running refresh workers.
func UpdateRefreshWorkers(count int) {
	globalManager.refreshWorkers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
