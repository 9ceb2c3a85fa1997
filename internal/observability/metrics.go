// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// Each instance owns its registry so tests and multiple servers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	mu        sync.RWMutex
	scenarios map[string]struct{} // scenario names allowed as label values

	// Simulation metrics
	RunsTotal       *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
	TrialsSimulated prometheus.Counter

	// Service metrics
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	LiveSessions    prometheus.Gauge
	LiveUpdates     *prometheus.CounterVec
	RunsStored      prometheus.Counter
	NarrativeErrors prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "risklab"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of scenario analyses by scenario and status",
		}, []string{"scenario", "status"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Duration of scenario analyses",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"scenario"}),
		TrialsSimulated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trials_total",
			Help:      "Total number of Monte Carlo trials simulated",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		LiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "sessions",
			Help:      "Number of open live simulation sessions",
		}),
		LiveUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "updates_total",
			Help:      "Total number of live parameter updates by status",
		}, []string{"status"}),
		RunsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "runs_stored_total",
			Help:      "Total number of runs written to history",
		}),
		NarrativeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "narrative",
			Name:      "errors_total",
			Help:      "Total number of failed narrative generations",
		}),
	}
	m.SetKnownScenarios(defaultScenarioLabels...)
	return m
}

// CustomScenarioLabel is the label value for scenario names outside the known set.
const CustomScenarioLabel = "custom"

var defaultScenarioLabels = []string{"Base", "Conservative", "Aggressive"}

// SetKnownScenarios replaces the scenario names recorded under their own label value.
// Any other name is recorded as CustomScenarioLabel.
func (m *Metrics) SetKnownScenarios(names ...string) {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}
	m.mu.Lock()
	m.scenarios = known
	m.mu.Unlock()
}

// ScenarioLabel maps a scenario name onto a bounded label value.
func (m *Metrics) ScenarioLabel(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.scenarios[name]; ok {
		return name
	}
	return CustomScenarioLabel
}

// ObserveRun records one scenario analysis. It satisfies calculation.Observer.
func (m *Metrics) ObserveRun(scenario string, iterations int, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	label := m.ScenarioLabel(scenario)
	m.RunsTotal.WithLabelValues(label, status).Inc()
	m.RunDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err == nil {
		m.TrialsSimulated.Add(float64(iterations))
	}
}

// RecordHTTP records a finished HTTP request.
func (m *Metrics) RecordHTTP(route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
