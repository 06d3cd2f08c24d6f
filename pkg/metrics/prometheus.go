// Package metrics provides Prometheus metrics for the techrank service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric name prefix: techrank_service_*.
const (
	namespace = "techrank"
	subsystem = "service"
)

// latencyBuckets are millisecond buckets shared by the duration histograms.
var latencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only bucket layout

// Manager manages all Prometheus metrics for the techrank service.
type Manager struct {
	registry prometheus.Registerer

	// Dataset metrics
	datasetLoads      *prometheus.CounterVec
	loadErrors        *prometheus.CounterVec
	loadDuration      prometheus.Histogram
	normalizeDuration prometheus.Histogram
	datasetEntities   prometheus.Gauge
	datasetPeriods    prometheus.Gauge
	datasetPoints     prometheus.Gauge

	// Presentation metrics
	viewRequests  prometheus.Counter
	chartRenders  *prometheus.CounterVec
	chartDuration prometheus.Histogram
	chartFailures prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

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
	m := &Manager{registry: prometheus.DefaultRegisterer}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset loads by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	m.loadErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "load_errors_total",
			Help:      "Total number of failed loads by error kind",
		},
		[]string{"kind"},
	)

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "load_duration_milliseconds",
		Help:      "Time spent reading and parsing a source table",
		Buckets:   latencyBuckets,
	})

	m.normalizeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "normalize_duration_milliseconds",
		Help:      "Time spent converting a raw table into ranks",
		Buckets:   latencyBuckets,
	})

	m.datasetEntities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dataset_entities",
		Help:      "Number of entities in the last normalized dataset",
	})

	m.datasetPeriods = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dataset_periods",
		Help:      "Number of periods in the last normalized dataset",
	})

	m.datasetPoints = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dataset_points",
		Help:      "Number of ranked points in the last normalized dataset",
	})

	m.viewRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "view_requests_total",
		Help:      "Total number of filter list computations",
	})

	m.chartRenders = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chart_renders_total",
			Help:      "Total number of charts rendered by format",
		},
		[]string{"format"},
	)

	m.chartDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chart_render_duration_milliseconds",
		Help:      "Time spent rendering a chart",
		Buckets:   latencyBuckets,
	})

	m.chartFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chart_render_failures_total",
		Help:      "Total number of failed chart renders",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   latencyBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.rateLimited = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Dataset Metrics Functions.

// RecordDatasetLoad counts a load attempt from source ("file" or "upload").
func RecordDatasetLoad(source, outcome string) {
	globalManager.datasetLoads.WithLabelValues(source, outcome).Inc()
}

// RecordLoadError counts a failed load by error kind.
func RecordLoadError(kind string) {
	globalManager.loadErrors.WithLabelValues(kind).Inc()
}

// RecordLoadDuration records source load time in milliseconds.
func RecordLoadDuration(ms float64) {
	globalManager.loadDuration.Observe(ms)
}

// RecordNormalizeDuration records normalization time in milliseconds.
func RecordNormalizeDuration(ms float64) {
	globalManager.normalizeDuration.Observe(ms)
}

// UpdateDatasetShape sets the size gauges of the last normalized dataset.
func UpdateDatasetShape(entities, periods, points int) {
	globalManager.datasetEntities.Set(float64(entities))
	globalManager.datasetPeriods.Set(float64(periods))
	globalManager.datasetPoints.Set(float64(points))
}

// Presentation Metrics Functions.

// RecordViewRequest increments the filter list counter.
func RecordViewRequest() {
	globalManager.viewRequests.Inc()
}

// RecordChartRender counts a rendered chart and its duration in milliseconds.
func RecordChartRender(format string, ms float64) {
	globalManager.chartRenders.WithLabelValues(format).Inc()
	globalManager.chartDuration.Observe(ms)
}

// RecordChartFailure increments the failed render counter.
func RecordChartFailure() {
	globalManager.chartFailures.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
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
