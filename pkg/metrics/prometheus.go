// Package metrics provides Prometheus metrics for arena races.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values shared by callers.
const (
	FailureError = "error"
	FailurePanic = "panic"

	ResultSolved     = "solved"
	ResultNoSolution = "no_solution"
	ResultParseError = "parse_error"
	ResultEmitError  = "emit_error"
)

// Manager manages all Prometheus metrics for a race.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Worker lifecycle
	workersSpawned prometheus.Counter
	workersFailed  *prometheus.CounterVec
	workersActive  prometheus.Gauge
	solveLatency   prometheus.Histogram

	// Ranking
	outcomesReceived *prometheus.CounterVec
	bestImprovements prometheus.Counter
	bestWeight       prometheus.Gauge

	// Scheduling
	pendingQueueLength prometheus.Gauge
	races              *prometheus.CounterVec
	raceDuration       prometheus.Histogram

	// Standings and status API
	standingsSize prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "race",
		histogramBuckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.workersSpawned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("workers_spawned_total"),
		Help:        "Total number of solver workers started, restarts included",
		ConstLabels: labels,
	})

	m.workersFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("workers_failed_total"),
		Help:        "Total number of workers that returned an error or panicked",
		ConstLabels: labels,
	}, []string{"reason"})

	m.workersActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("workers_active"),
		Help:        "Number of workers whose result has not been collected yet",
		ConstLabels: labels,
	})

	m.solveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("solve_latency_milliseconds"),
		Help:        "Wall-clock duration of a single solve call in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.outcomesReceived = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("outcomes_received_total"),
		Help:        "Total number of scored outcomes considered by the scheduler",
		ConstLabels: labels,
	}, []string{"source"})

	m.bestImprovements = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("best_improvements_total"),
		Help:        "Total number of times the current best outcome was replaced",
		ConstLabels: labels,
	})

	m.bestWeight = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("best_weight"),
		Help:        "Weight of the current best outcome",
		ConstLabels: labels,
	})

	m.pendingQueueLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pending_queue_length"),
		Help:        "Number of worker handles waiting to be polled",
		ConstLabels: labels,
	})

	m.races = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("races_total"),
		Help:        "Total number of finished races by mode and result",
		ConstLabels: labels,
	}, []string{"mode", "result"})

	m.raceDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("duration_milliseconds"),
		Help:        "Wall-clock duration of a whole race in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.standingsSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("standings_sources"),
		Help:        "Number of outcome sources present in the standings",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("requests_total"),
		Help:        "Total number of status API requests",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        m.name("request_duration_milliseconds"),
		Help:        "Status API request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})
}

// WorkerSpawned records a started worker.
func (m *Manager) WorkerSpawned() {
	if !m.enabled {
		return
	}
	m.workersSpawned.Inc()
	m.workersActive.Inc()
}

// WorkerFinished records a worker whose result was collected.
func (m *Manager) WorkerFinished(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.workersActive.Dec()
	m.solveLatency.Observe(latencyMs)
}

// WorkerFailed records a worker that errored or panicked.
func (m *Manager) WorkerFailed(reason string) {
	if !m.enabled {
		return
	}
	m.workersActive.Dec()
	m.workersFailed.WithLabelValues(reason).Inc()
}

// OutcomeReceived records an outcome from source and whether it improved the best.
func (m *Manager) OutcomeReceived(source string, weight uint64, improved bool) {
	if !m.enabled {
		return
	}
	m.outcomesReceived.WithLabelValues(source).Inc()
	if improved {
		m.bestImprovements.Inc()
		m.bestWeight.Set(float64(weight))
	}
}

// UpdatePendingQueueLength sets the current pending queue length.
func (m *Manager) UpdatePendingQueueLength(n int) {
	if !m.enabled {
		return
	}
	m.pendingQueueLength.Set(float64(n))
}

// RaceFinished records a finished race.
func (m *Manager) RaceFinished(mode, result string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.races.WithLabelValues(mode, result).Inc()
	m.raceDuration.Observe(durationMs)
}

// UpdateStandingsSize sets the number of sources in the standings.
func (m *Manager) UpdateStandingsSize(n int) {
	if !m.enabled {
		return
	}
	m.standingsSize.Set(float64(n))
}

// HTTPRequest records one status API request.
func (m *Manager) HTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpLatency.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Gatherer returns the registry as a gatherer.
func (m *Manager) Gatherer() (prometheus.Gatherer, error) {
	g, ok := m.registry.(prometheus.Gatherer)
	if !ok {
		return nil, ErrNoGatherer
	}
	return g, nil
}

// Handler exposes the manager's registry over HTTP.
func (m *Manager) Handler() (http.Handler, error) {
	g, err := m.Gatherer()
	if err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
}

// WriteTextfile dumps the current metric values in the text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	g, err := m.Gatherer()
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrExportMetrics, err)
	}
	return nil
}

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}

// RecordWorkerSpawned records a started worker on the global manager.
func RecordWorkerSpawned() {
	globalManager.WorkerSpawned()
}

// RecordWorkerFinished records a collected worker on the global manager.
func RecordWorkerFinished(latencyMs float64) {
	globalManager.WorkerFinished(latencyMs)
}

// RecordWorkerFailed records a failed worker on the global manager.
func RecordWorkerFailed(reason string) {
	globalManager.WorkerFailed(reason)
}

// RecordOutcome records a received outcome on the global manager.
func RecordOutcome(source string, weight uint64, improved bool) {
	globalManager.OutcomeReceived(source, weight, improved)
}

// UpdatePendingQueueLength sets the pending queue length on the global manager.
func UpdatePendingQueueLength(n int) {
	globalManager.UpdatePendingQueueLength(n)
}

// RecordRaceFinished records a finished race on the global manager.
func RecordRaceFinished(mode, result string, durationMs float64) {
	globalManager.RaceFinished(mode, result, durationMs)
}

// UpdateStandingsSize sets the standings size on the global manager.
func UpdateStandingsSize(n int) {
	globalManager.UpdateStandingsSize(n)
}

// RecordHTTPRequest records a status API request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.HTTPRequest(endpoint, method, statusCode, durationMs)
}

// Handler exposes the global registry over HTTP.
func Handler() http.Handler {
	h, err := globalManager.Handler()
	if err != nil {
		// customRegistry is always a Gatherer
		panic(err)
	}
	return h
}

// WriteTextfile dumps the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
