// Package metrics provides Prometheus metrics for the convoca attendance
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics.
	eventsIngested   prometheus.Counter
	mutationsApplied *prometheus.CounterVec
	reportRecomputes prometheus.Counter
	reportDuration   prometheus.Histogram
	memoHits         prometheus.Counter
	memoMisses       prometheus.Counter

	// Store metrics.
	snapshotRebuilds        prometheus.Counter
	snapshotRebuildDuration prometheus.Histogram
	rosterSize              prometheus.Gauge
	calendarSize            prometheus.Gauge

	// Queue metrics.
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics.
	workerCount        prometheus.Gauge
	workerApplyLatency prometheus.Histogram
	workerErrors       prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics.
	errorsByComponent *prometheus.CounterVec

	// System metrics.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "convoca",
		subsystem:        "attendance",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		}
	}

	m.eventsIngested = prometheus.NewCounter(factory("events_ingested_total", "Calendar events accepted at the API."))
	m.mutationsApplied = prometheus.NewCounterVec(factory("mutations_applied_total", "Mutations applied to the store."), []string{"op"})
	m.reportRecomputes = prometheus.NewCounter(factory("report_recomputes_total", "Derived report recomputations."))
	m.reportDuration = prometheus.NewHistogram(histOpts("report_recompute_duration_ms", "Derived report recomputation duration in milliseconds."))
	m.memoHits = prometheus.NewCounter(factory("memo_hits_total", "Report cache hits."))
	m.memoMisses = prometheus.NewCounter(factory("memo_misses_total", "Report cache misses."))

	m.snapshotRebuilds = prometheus.NewCounter(factory("snapshot_rebuilds_total", "Store snapshot rebuilds."))
	m.snapshotRebuildDuration = prometheus.NewHistogram(histOpts("snapshot_rebuild_duration_ms", "Store snapshot rebuild duration in milliseconds."))
	m.rosterSize = prometheus.NewGauge(gaugeOpts("roster_size", "People on the roster."))
	m.calendarSize = prometheus.NewGauge(gaugeOpts("calendar_size", "Events on the calendar."))

	m.queueSize = prometheus.NewGauge(gaugeOpts("queue_size", "Mutations waiting in the queue."))
	m.queueCapacity = prometheus.NewGauge(gaugeOpts("queue_capacity", "Mutation queue capacity."))
	m.queueEnqueues = prometheus.NewCounter(factory("queue_enqueues_total", "Successful enqueues."))
	m.queueDequeues = prometheus.NewCounter(factory("queue_dequeues_total", "Successful dequeues."))
	m.queueEnqueueErrors = prometheus.NewCounter(factory("queue_enqueue_errors_total", "Rejected enqueues (closed or full)."))

	m.workerCount = prometheus.NewGauge(gaugeOpts("worker_count", "Mutation workers running."))
	m.workerApplyLatency = prometheus.NewHistogram(histOpts("worker_apply_duration_ms", "Mutation application duration in milliseconds."))
	m.workerErrors = prometheus.NewCounter(factory("worker_errors_total", "Mutation application failures."))

	m.httpRequests = prometheus.NewCounterVec(factory("http_requests_total", "HTTP requests served."), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(histOpts("http_request_duration_ms", "HTTP request duration in milliseconds."), []string{"endpoint", "method", "status"})

	m.errorsByComponent = prometheus.NewCounterVec(factory("errors_total", "Errors by component and type."), []string{"component", "type"})

	m.systemMemoryUsage = prometheus.NewGauge(gaugeOpts("system_memory_bytes", "Allocated heap bytes."))
	m.systemGoroutineCount = prometheus.NewGauge(gaugeOpts("system_goroutines", "Live goroutines."))
	m.systemGCPauseTime = prometheus.NewHistogram(histOpts("system_gc_pause_ms", "Average GC pause in milliseconds."))

	m.registry.MustRegister(
		m.eventsIngested, m.mutationsApplied,
		m.reportRecomputes, m.reportDuration, m.memoHits, m.memoMisses,
		m.snapshotRebuilds, m.snapshotRebuildDuration, m.rosterSize, m.calendarSize,
		m.queueSize, m.queueCapacity, m.queueEnqueues, m.queueDequeues, m.queueEnqueueErrors,
		m.workerCount, m.workerApplyLatency, m.workerErrors,
		m.httpRequests, m.httpRequestDuration,
		m.errorsByComponent,
		m.systemMemoryUsage, m.systemGoroutineCount, m.systemGCPauseTime,
	)
}

// Package-level helpers delegating to the global manager.

// RecordEventIngested counts a calendar event accepted at the API.
func RecordEventIngested() { globalManager.eventsIngested.Inc() }

// RecordMutationApplied counts a mutation applied to the store.
func RecordMutationApplied(op string) { globalManager.mutationsApplied.WithLabelValues(op).Inc() }

// RecordReportRecompute counts a derived report recomputation and its duration.
func RecordReportRecompute(durationMs float64) {
	globalManager.reportRecomputes.Inc()
	globalManager.reportDuration.Observe(durationMs)
}

// RecordMemoHit counts a report cache hit.
func RecordMemoHit() { globalManager.memoHits.Inc() }

// RecordMemoMiss counts a report cache miss.
func RecordMemoMiss() { globalManager.memoMisses.Inc() }

// RecordSnapshotRebuild counts a store snapshot rebuild and its duration.
func RecordSnapshotRebuild(durationMs float64) {
	globalManager.snapshotRebuilds.Inc()
	globalManager.snapshotRebuildDuration.Observe(durationMs)
}

// UpdateRosterSize sets the roster size gauge.
func UpdateRosterSize(n int) { globalManager.rosterSize.Set(float64(n)) }

// UpdateCalendarSize sets the calendar size gauge.
func UpdateCalendarSize(n int) { globalManager.calendarSize.Set(float64(n)) }

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue counts a successful dequeue.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerApplyLatency observes one mutation application duration.
func RecordWorkerApplyLatency(durationMs float64) {
	globalManager.workerApplyLatency.Observe(durationMs)
}

// RecordWorkerError counts a failed mutation application.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
