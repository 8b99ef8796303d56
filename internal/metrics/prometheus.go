// Package metrics exposes Prometheus instrumentation for the lookup service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeHit      = "hit"
	OutcomeEmpty    = "empty"
	OutcomeNotReady = "not_ready"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal    *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	SearchMatches    prometheus.Histogram
	LoadsTotal       *prometheus.CounterVec
	LoadDuration     prometheus.Histogram
	DictionaryKeys   prometheus.Gauge
	AudioProbesTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a dedicated registry that also
// carries the Go runtime and process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of dictionary searches by outcome",
		}, []string{"outcome"}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Histogram of search durations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SearchMatches: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "matches",
			Help:      "Number of keys returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		LoadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dictionary",
			Name:      "loads_total",
			Help:      "Dictionary load attempts by result",
		}, []string{"result"}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dictionary",
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching and parsing the dictionary",
			Buckets:   prometheus.DefBuckets,
		}),
		DictionaryKeys: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dictionary",
			Name:      "keys",
			Help:      "Number of distinct keys in the loaded dictionary",
		}),
		AudioProbesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audio",
			Name:      "probes_total",
			Help:      "Audio existence probes by result",
		}, []string{"exists"}),
	}
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(outcome string, matches int, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeNotReady {
		return
	}
	m.SearchDuration.Observe(d.Seconds())
	m.SearchMatches.Observe(float64(matches))
}

// ObserveLoad records a settled dictionary load.
func (m *Metrics) ObserveLoad(err error, keys int, d time.Duration) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(d.Seconds())
	if err != nil {
		m.LoadsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.LoadsTotal.WithLabelValues("ready").Inc()
	m.DictionaryKeys.Set(float64(keys))
}

// ObserveProbe records one audio probe.
func (m *Metrics) ObserveProbe(exists bool) {
	if m == nil {
		return
	}
	if exists {
		m.AudioProbesTotal.WithLabelValues("true").Inc()
		return
	}
	m.AudioProbesTotal.WithLabelValues("false").Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
