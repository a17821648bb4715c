// Package metrics provides Prometheus metrics for the gymscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	teamScoresCalculated *prometheus.CounterVec
	aggregationLatency   prometheus.Histogram
	countingScores       prometheus.Counter
	placementsDerived    prometheus.Counter

	// Seasons
	seasonLookups     *prometheus.CounterVec
	seasonParseErrors prometheus.Counter

	// Roster
	rosterGymnasts prometheus.Gauge
	rosterScores   prometheus.Gauge

	// Exports
	exportsWritten prometheus.Counter
	exportErrors   prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors register on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gymscore",
		subsystem:        "engine",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.teamScoresCalculated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_scores_calculated_total",
		Help:        "Team score aggregations by discipline",
		ConstLabels: m.constLabels,
	}, []string{"discipline"})

	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "aggregation_latency_milliseconds",
		Help:        "Time spent aggregating one level/discipline group",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.countingScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counting_scores_total",
		Help:        "Individual marks selected as counting toward a team total",
		ConstLabels: m.constLabels,
	})

	m.placementsDerived = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "placements_derived_total",
		Help:        "Scores whose placements were derived rather than recorded",
		ConstLabels: m.constLabels,
	})

	m.seasonLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "season_lookups_total",
		Help:        "Season calculations by operation",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.seasonParseErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "season_parse_errors_total",
		Help:        "Malformed season labels received",
		ConstLabels: m.constLabels,
	})

	m.rosterGymnasts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_gymnasts",
		Help:        "Gymnasts held by the roster store",
		ConstLabels: m.constLabels,
	})

	m.rosterScores = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_scores",
		Help:        "Scores held by the roster store",
		ConstLabels: m.constLabels,
	})

	m.exportsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "exports_written_total",
		Help:        "Spreadsheet exports written",
		ConstLabels: m.constLabels,
	})

	m.exportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "export_errors_total",
		Help:        "Spreadsheet exports that failed",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// Manager-level recorders. Each is a no-op when metrics are disabled.

// RecordTeamScoreCalculated counts one aggregation for discipline.
func (m *Manager) RecordTeamScoreCalculated(discipline string) {
	if m.enabled {
		m.teamScoresCalculated.WithLabelValues(discipline).Inc()
	}
}

// RecordAggregationLatency observes one aggregation duration.
func (m *Manager) RecordAggregationLatency(latencyMs float64) {
	if m.enabled {
		m.aggregationLatency.Observe(latencyMs)
	}
}

// RecordCountingScores adds n counting marks.
func (m *Manager) RecordCountingScores(n int) {
	if m.enabled && n > 0 {
		m.countingScores.Add(float64(n))
	}
}

// RecordPlacementsDerived adds n scores with derived placements.
func (m *Manager) RecordPlacementsDerived(n int) {
	if m.enabled && n > 0 {
		m.placementsDerived.Add(float64(n))
	}
}

// RecordSeasonLookup counts one season operation.
func (m *Manager) RecordSeasonLookup(operation string) {
	if m.enabled {
		m.seasonLookups.WithLabelValues(operation).Inc()
	}
}

// RecordSeasonParseError counts one malformed season label.
func (m *Manager) RecordSeasonParseError() {
	if m.enabled {
		m.seasonParseErrors.Inc()
	}
}

// UpdateRosterSize sets the roster gauges.
func (m *Manager) UpdateRosterSize(gymnasts, scores int) {
	if m.enabled {
		m.rosterGymnasts.Set(float64(gymnasts))
		m.rosterScores.Set(float64(scores))
	}
}

// RecordExport counts one export attempt.
func (m *Manager) RecordExport(err error) {
	if !m.enabled {
		return
	}
	if err != nil {
		m.exportErrors.Inc()
		return
	}
	m.exportsWritten.Inc()
}

// RecordHTTPRequest counts one HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint counts one HTTP error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// Package-level helpers on the global manager.

// RecordTeamScoreCalculated counts one aggregation for discipline.
func RecordTeamScoreCalculated(discipline string) {
	globalManager.RecordTeamScoreCalculated(discipline)
}

// RecordAggregationLatency observes one aggregation duration.
func RecordAggregationLatency(latencyMs float64) {
	globalManager.RecordAggregationLatency(latencyMs)
}

// RecordCountingScores adds n counting marks.
func RecordCountingScores(n int) {
	globalManager.RecordCountingScores(n)
}

// RecordPlacementsDerived adds n scores with derived placements.
func RecordPlacementsDerived(n int) {
	globalManager.RecordPlacementsDerived(n)
}

// RecordSeasonLookup counts one season operation.
func RecordSeasonLookup(operation string) {
	globalManager.RecordSeasonLookup(operation)
}

// RecordSeasonParseError counts one malformed season label.
func RecordSeasonParseError() {
	globalManager.RecordSeasonParseError()
}

// UpdateRosterSize sets the roster gauges.
func UpdateRosterSize(gymnasts, scores int) {
	globalManager.UpdateRosterSize(gymnasts, scores)
}

// RecordExport counts one export attempt.
func RecordExport(err error) {
	globalManager.RecordExport(err)
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts one HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
