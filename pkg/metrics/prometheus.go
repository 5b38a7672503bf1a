// Package metrics provides Prometheus metrics for the EVS inspection service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Inspection flow
	inspectionsSubmitted  prometheus.Counter
	inspectionsIncomplete prometheus.Counter
	sessionsStarted       prometheus.Counter
	sessionsCancelled     prometheus.Counter
	openSessions          prometheus.Gauge
	submitDuration        prometheus.Histogram

	// Catalog administration
	importsApplied prometheus.Counter
	importsFailed  prometheus.Counter

	// History
	recordsTotal prometheus.Gauge

	// Report export pipeline
	exportQueueSize     prometheus.Gauge
	exportQueueCapacity prometheus.Gauge
	exportWorkerCount   prometheus.Gauge
	exportsWritten      prometheus.Counter
	exportsFailed       prometheus.Counter
	exportDuration      prometheus.Histogram

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a private registry so the default Go collectors stay out.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // backing registry for the singleton

func init() { //nolint:gochecknoinits // global metrics must exist before any component records
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager builds a Manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "evround",
		subsystem:        "inspection",
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
	auto := promauto.With(m.registry)

	m.inspectionsSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submitted_total",
		Help:      "Total number of inspection records submitted",
	})

	m.inspectionsIncomplete = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "incomplete_rejections_total",
		Help:      "Total number of submissions rejected for unanswered checklist items",
	})

	m.sessionsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_started_total",
		Help:      "Total number of inspection sessions started",
	})

	m.sessionsCancelled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_cancelled_total",
		Help:      "Total number of inspection sessions discarded before submission",
	})

	m.openSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "open_sessions",
		Help:      "Number of sessions currently in the checklist-filling state",
	})

	m.submitDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submit_duration_milliseconds",
		Help:      "Histogram of submit handling time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.importsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "catalog",
		Name:      "imports_applied_total",
		Help:      "Total number of configuration imports applied",
	})

	m.importsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "catalog",
		Name:      "imports_failed_total",
		Help:      "Total number of configuration imports rejected",
	})

	m.recordsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "history",
		Name:      "records",
		Help:      "Number of inspection records held in history",
	})

	m.exportQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "queue_size",
		Help:      "Current number of queued report-export jobs",
	})

	m.exportQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "queue_capacity",
		Help:      "Configured capacity of the report-export queue",
	})

	m.exportWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "workers",
		Help:      "Number of report-export workers",
	})

	m.exportsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "documents_written_total",
		Help:      "Total number of report documents written to disk",
	})

	m.exportsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "failures_total",
		Help:      "Total number of report-export failures",
	})

	m.exportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "export",
		Name:      "duration_milliseconds",
		Help:      "Histogram of report-export time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request time in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
}

// GetRegistry exposes the backing registry for the /healthz exposition handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recorders delegating to the global manager.

func RecordInspectionSubmitted()  { globalManager.inspectionsSubmitted.Inc() }
func RecordIncompleteRejection()  { globalManager.inspectionsIncomplete.Inc() }
func RecordSessionStarted()       { globalManager.sessionsStarted.Inc() }
func RecordSessionCancelled()     { globalManager.sessionsCancelled.Inc() }
func UpdateOpenSessions(n int)    { globalManager.openSessions.Set(float64(n)) }
func RecordSubmitDuration(ms float64) {
	globalManager.submitDuration.Observe(ms)
}

func RecordImportApplied() { globalManager.importsApplied.Inc() }
func RecordImportFailed()  { globalManager.importsFailed.Inc() }

func UpdateRecordCount(n int) { globalManager.recordsTotal.Set(float64(n)) }

func UpdateExportQueueSize(n int)     { globalManager.exportQueueSize.Set(float64(n)) }
func UpdateExportQueueCapacity(n int) { globalManager.exportQueueCapacity.Set(float64(n)) }
func UpdateExportWorkerCount(n int)   { globalManager.exportWorkerCount.Set(float64(n)) }
func RecordExportWritten()            { globalManager.exportsWritten.Inc() }
func RecordExportFailed()             { globalManager.exportsFailed.Inc() }
func RecordExportDuration(ms float64) { globalManager.exportDuration.Observe(ms) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}
