package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation and briefing layers.
type Metrics struct {
	CacheLookups    *prometheus.CounterVec   // labels: domain, result={hit,miss}
	AdapterRequests *prometheus.CounterVec   // labels: domain, source, outcome={success,empty,error}
	AdapterDuration *prometheus.HistogramVec // labels: domain, source
	FanoutDuration  *prometheus.HistogramVec // labels: domain
	Fallbacks       *prometheus.CounterVec   // labels: domain, kind={stale,static}
	Coalesced       *prometheus.CounterVec   // labels: domain
	Served          *prometheus.CounterVec   // labels: domain, origin={cache,live,stale,fallback}

	// Briefing pipeline metrics.
	BriefingsPublished prometheus.Counter
	BriefingErrors     prometheus.Counter
	SchedulerRunning   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CacheLookups,
		m.AdapterRequests,
		m.AdapterDuration,
		m.FanoutDuration,
		m.Fallbacks,
		m.Coalesced,
		m.Served,
		m.BriefingsPublished,
		m.BriefingErrors,
		m.SchedulerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "cache_lookups_total",
			Help:      "Fresh-cache lookups by domain and result.",
		}, []string{"domain", "result"}),
		AdapterRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "adapter_requests_total",
			Help:      "Source adapter calls by domain, source, and outcome.",
		}, []string{"domain", "source", "outcome"}),
		AdapterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kilo",
			Name:      "adapter_duration_seconds",
			Help:      "Source adapter call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"domain", "source"}),
		FanoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kilo",
			Name:      "fanout_duration_seconds",
			Help:      "Duration of one complete fan-out-and-merge cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"domain"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "fallbacks_total",
			Help:      "Total-source-failure fallbacks by domain and kind.",
		}, []string{"domain", "kind"}),
		Coalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "coalesced_requests_total",
			Help:      "Requests that joined an in-flight fan-out instead of starting one.",
		}, []string{"domain"}),
		Served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "aggregations_served_total",
			Help:      "Aggregation responses by domain and origin.",
		}, []string{"domain", "origin"}),
		BriefingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "briefings_published_total",
			Help:      "Daily briefings published to the delivery topic.",
		}),
		BriefingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kilo",
			Name:      "briefing_errors_total",
			Help:      "Briefing compose or publish failures.",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kilo",
			Name:      "scheduler_running",
			Help:      "1 when the briefing scheduler is active, 0 otherwise.",
		}),
	}
}
