// Package metrics provides Prometheus metrics for the Mergington activities service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// Auth
	loginAttempts  *prometheus.CounterVec
	activeSessions prometheus.Gauge

	// Roster
	rosterMutations      *prometheus.CounterVec
	activityParticipants *prometheus.GaugeVec
	activityCapacity     *prometheus.GaugeVec

	// Audit pipeline
	auditQueueSize         prometheus.Gauge
	auditQueueCapacity     prometheus.Gauge
	auditEventsEnqueued    prometheus.Counter
	auditEventsDropped     *prometheus.CounterVec
	auditEventsProcessed   *prometheus.CounterVec
	auditProcessingLatency prometheus.Histogram
	workerCount            prometheus.Gauge

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

// active backs the package-level helpers and /metrics.
var active atomic.Pointer[global] //nolint:gochecknoglobals // singleton used by package-level helpers

func init() { //nolint:gochecknoinits // global metrics setup
	Init()
}

// Init rebuilds the package-level manager on a fresh registry, which keeps
// the default Go collectors out of /metrics. Call it once at startup, before
// serving; collectors recorded under the previous manager are discarded.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	opts = append(opts, WithPrometheusRegistry(registry))
	active.Store(&global{manager: NewManager(opts...), registry: registry})
}

func current() *Manager {
	return active.Load().manager
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mergington",
		subsystem:        "activities",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Error responses by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Error responses by error type and severity"),
		[]string{"error_type", "severity"},
	)

	m.loginAttempts = auto.NewCounterVec(
		m.counterOpts("login_attempts_total", "Teacher login attempts by outcome"),
		[]string{"outcome"},
	)
	m.activeSessions = auto.NewGauge(
		m.gaugeOpts("active_sessions", "Number of live teacher sessions"),
	)

	m.rosterMutations = auto.NewCounterVec(
		m.counterOpts("roster_mutations_total", "Signup and unregister calls by kind and outcome"),
		[]string{"kind", "outcome"},
	)
	m.activityParticipants = auto.NewGaugeVec(
		m.gaugeOpts("activity_participants", "Current participants per activity"),
		[]string{"activity"},
	)
	m.activityCapacity = auto.NewGaugeVec(
		m.gaugeOpts("activity_capacity", "Maximum participants per activity"),
		[]string{"activity"},
	)

	m.auditQueueSize = auto.NewGauge(
		m.gaugeOpts("audit_queue_size", "Roster events waiting in the audit queue"),
	)
	m.auditQueueCapacity = auto.NewGauge(
		m.gaugeOpts("audit_queue_capacity", "Capacity of the audit queue"),
	)
	m.auditEventsEnqueued = auto.NewCounter(
		m.counterOpts("audit_events_enqueued_total", "Roster events accepted by the audit queue"),
	)
	m.auditEventsDropped = auto.NewCounterVec(
		m.counterOpts("audit_events_dropped_total", "Roster events dropped before reaching the journal"),
		[]string{"reason"},
	)
	m.auditEventsProcessed = auto.NewCounterVec(
		m.counterOpts("audit_events_processed_total", "Roster events written to the journal by kind"),
		[]string{"kind"},
	)
	m.auditProcessingLatency = auto.NewHistogram(
		m.histogramOpts("audit_processing_latency_milliseconds", "Time from event creation to journal write"),
	)
	m.workerCount = auto.NewGauge(
		m.gaugeOpts("audit_worker_count", "Number of audit workers"),
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutines", "Number of goroutines"),
	)
}

// GetRegistry returns the registry backing /metrics.
func GetRegistry() *prometheus.Registry {
	return active.Load().registry
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	current().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	current().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	current().errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error response by type and severity.
func RecordErrorByType(errorType, severity string) {
	current().errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordLoginAttempt counts a login attempt; outcome is "success" or "failure".
func RecordLoginAttempt(outcome string) {
	current().loginAttempts.WithLabelValues(outcome).Inc()
}

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(count int) {
	current().activeSessions.Set(float64(count))
}

// RecordRosterMutation counts a signup/unregister call.
func RecordRosterMutation(kind, outcome string) {
	current().rosterMutations.WithLabelValues(kind, outcome).Inc()
}

// UpdateActivityParticipants sets participant and capacity gauges for one activity.
func UpdateActivityParticipants(activity string, participants, capacity int) {
	current().activityParticipants.WithLabelValues(activity).Set(float64(participants))
	current().activityCapacity.WithLabelValues(activity).Set(float64(capacity))
}

// UpdateAuditQueueSize sets the audit queue length.
func UpdateAuditQueueSize(size int) {
	current().auditQueueSize.Set(float64(size))
}

// UpdateAuditQueueCapacity sets the audit queue capacity.
func UpdateAuditQueueCapacity(capacity int) {
	current().auditQueueCapacity.Set(float64(capacity))
}

// RecordAuditEnqueued counts an event accepted by the queue.
func RecordAuditEnqueued() {
	current().auditEventsEnqueued.Inc()
}

// RecordAuditDropped counts an event the queue refused.
func RecordAuditDropped(reason string) {
	current().auditEventsDropped.WithLabelValues(reason).Inc()
}

// RecordAuditProcessed counts an event written to the journal.
func RecordAuditProcessed(kind string) {
	current().auditEventsProcessed.WithLabelValues(kind).Inc()
}

// RecordAuditLatency records enqueue-to-journal latency in milliseconds.
func RecordAuditLatency(latencyMs float64) {
	current().auditProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the audit worker gauge.
func UpdateWorkerCount(count int) {
	current().workerCount.Set(float64(count))
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	current().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	current().systemGoroutineCount.Set(float64(count))
}
