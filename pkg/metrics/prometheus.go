// Package metrics provides Prometheus metrics for the burnout-risk service.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core business metrics
	assessments         *prometheus.CounterVec
	assessmentsUnscored prometheus.Counter
	assessmentsRejected *prometheus.CounterVec
	probability         prometheus.Histogram
	scoringLatency      prometheus.Histogram

	// Event fan-out
	eventsPublished *prometheus.CounterVec
	queueSize       prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "burnrisk",
		subsystem:        "assessment",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.assessments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scored_total",
		Help:        "Total number of scored assessments by risk tier",
		ConstLabels: labels,
	}, []string{"tier"})

	m.assessmentsUnscored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unscored_total",
		Help:        "Total number of assessments answered with generic advice only",
		ConstLabels: labels,
	})

	m.assessmentsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rejected_total",
		Help:        "Total number of assessments rejected by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.probability = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "probability",
		Help:        "Distribution of estimated severe burnout probabilities",
		Buckets:     prometheus.LinearBuckets(0.1, 0.1, 9),
		ConstLabels: labels,
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_latency_milliseconds",
		Help:        "Histogram of collection and scoring latency in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		ConstLabels: labels,
	})

	m.eventsPublished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "events_published_total",
		Help:        "Total number of assessment events handed to the broker by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "outbox_queue_size",
		Help:        "Current number of assessment events waiting to be published",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
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
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Heap memory in use in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})
}

// RecordAssessment counts a scored assessment and observes its probability.
func RecordAssessment(tier string, probability float64) {
	globalManager.assessments.WithLabelValues(tier).Inc()
	globalManager.probability.Observe(probability)
}

// RecordUnscored increments the unscored assessments counter.
func RecordUnscored() {
	globalManager.assessmentsUnscored.Inc()
}

// RecordRejected counts an assessment refused with the given error kind.
func RecordRejected(kind string) {
	globalManager.assessmentsRejected.WithLabelValues(kind).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordEventPublished counts a publish attempt; outcome is "ok" or "error".
func RecordEventPublished(outcome string) {
	globalManager.eventsPublished.WithLabelValues(outcome).Inc()
}

// UpdateQueueSize sets the current outbox queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
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

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// CollectSystem samples runtime memory and goroutine gauges.
func CollectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.HeapInuse)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
