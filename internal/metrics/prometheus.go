package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace matches the teacher's pkg/metrics.Namespace convention of
// prefixing every metric with a single project namespace.
const Namespace = "causelist"

// Registry wraps a dedicated prometheus.Registry (rather than the global
// default registry) so that multiple independent simulation runs in the
// same process — spec §5 permits parallel independent runs — don't collide
// registering the same metric names twice, the one place this module departs
// from the teacher's pkg/metrics (which registers into a single
// controller-runtime-managed process and only ever runs once).
type Registry struct {
	reg *prometheus.Registry

	daysProcessed    prometheus.Counter
	scheduledTotal   *prometheus.CounterVec
	heardTotal       prometheus.Counter
	adjournedTotal   prometheus.Counter
	disposedTotal    prometheus.Counter
	missingParams    prometheus.Counter
	capacityLimited  prometheus.Counter
	giniGauge        prometheus.Gauge
}

// NewRegistry constructs and registers the run's Prometheus metrics, the
// same MustRegister-at-construction idiom as the teacher's
// pkg/metrics.MustRegister.
func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}
	r.daysProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "days_processed_total",
		Help: "Number of simulated working days processed.",
	})
	r.scheduledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "cases_scheduled_total",
		Help: "Number of cases scheduled, labeled by courtroom.",
	}, []string{"courtroom"})
	r.heardTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "hearings_heard_total",
		Help: "Number of hearings with outcome heard.",
	})
	r.adjournedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "hearings_adjourned_total",
		Help: "Number of hearings with outcome adjourned.",
	})
	r.disposedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "cases_disposed_total",
		Help: "Number of cases disposed.",
	})
	r.missingParams = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "missing_params_total",
		Help: "Number of parameter-table misses recorded.",
	})
	r.capacityLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "capacity_limited_total",
		Help: "Number of cases skipped because every courtroom was full.",
	})
	r.giniGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace, Subsystem: "sim", Name: "load_balance_gini",
		Help: "Running Gini coefficient over cumulative per-courtroom scheduled counts.",
	})
	r.reg.MustRegister(r.daysProcessed, r.scheduledTotal, r.heardTotal, r.adjournedTotal,
		r.disposedTotal, r.missingParams, r.capacityLimited, r.giniGauge)
	return r
}

// Registerer exposes the underlying prometheus.Registerer for a caller that
// wants to add its own collectors (e.g. a dashboard's /metrics handler).
func (r *Registry) Registerer() prometheus.Registerer { return r.reg }

// Gatherer exposes the underlying prometheus.Gatherer for scraping.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Observe updates the Prometheus collectors from one day's counters and the
// running Gini over cumulative courtroom totals.
func (r *Registry) Observe(dc DayCounters, runningGini float64) {
	r.daysProcessed.Inc()
	for courtroom, count := range dc.CourtroomCounts {
		r.scheduledTotal.WithLabelValues(courtroom).Add(float64(count))
	}
	r.heardTotal.Add(float64(dc.Heard))
	r.adjournedTotal.Add(float64(dc.Adjourned))
	r.disposedTotal.Add(float64(dc.Disposed))
	r.missingParams.Add(float64(dc.MissingParams))
	r.capacityLimited.Add(float64(dc.CapacityLimited))
	r.giniGauge.Set(runningGini)
}
