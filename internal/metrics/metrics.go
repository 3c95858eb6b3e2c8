package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the theorist loop and the estimator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal             *prometheus.CounterVec   // runs by outcome
	RunDuration           prometheus.Histogram     // wall time per run
	ReasonStepsTotal      prometheus.Counter       // REASON passes
	LoopErrorsTotal       *prometheus.CounterVec   // error log entries by kind
	EstimatesTotal        *prometheus.CounterVec   // estimator invocations by status
	EstimateDuration      prometheus.Histogram     // estimator latency
	AdvisorDuration       *prometheus.HistogramVec // advisor latency by model and result
	AdvisorCostUSD        *prometheus.CounterVec   // accumulated advisor cost by model
	EstimatorCacheHits    prometheus.CounterFunc
	EstimatorCacheEntries prometheus.GaugeFunc
}

// NewMetrics creates and registers the metrics.
// The registerer parameter allows flexible registration (e.g., global registry, test registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nash_runs_total",
			Help: "Theorist loop runs by outcome",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nash_run_duration_seconds",
			Help:    "Wall time of one theorist loop run",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		ReasonStepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nash_reason_steps_total",
			Help: "REASON passes across all runs",
		}),
		LoopErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nash_loop_errors_total",
			Help: "Error log entries by kind",
		}, []string{"kind"}),
		EstimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nash_estimates_total",
			Help: "Transport estimator invocations by result status",
		}, []string{"status"}),
		EstimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nash_estimate_duration_seconds",
			Help:    "Transport estimator latency",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		AdvisorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nash_advisor_duration_seconds",
			Help:    "Advisory service latency",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"model", "result"}),
		AdvisorCostUSD: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nash_advisor_cost_usd_total",
			Help: "Accumulated advisory service cost in USD",
		}, []string{"model"}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.ReasonStepsTotal,
		m.LoopErrorsTotal,
		m.EstimatesTotal,
		m.EstimateDuration,
		m.AdvisorDuration,
		m.AdvisorCostUSD,
	)
	return m
}

// RegisterCache exposes the hit counter and the entry count of an estimator
// cache, read from hits and entries at scrape time.
func (m *Metrics) RegisterCache(reg prometheus.Registerer, hits, entries func() float64) {
	if m == nil {
		return
	}
	m.EstimatorCacheHits = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "nash_estimator_cache_hits_total",
		Help: "Estimator requests served from cache",
	}, hits)
	m.EstimatorCacheEntries = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "nash_estimator_cache_entries",
		Help: "Estimator results currently cached",
	}, entries)
	reg.MustRegister(m.EstimatorCacheHits, m.EstimatorCacheEntries)
}

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) ReasonStep() {
	if m == nil {
		return
	}
	m.ReasonStepsTotal.Inc()
}

func (m *Metrics) LoopError(kind string) {
	if m == nil {
		return
	}
	m.LoopErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveEstimate(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.EstimatesTotal.WithLabelValues(status).Inc()
	m.EstimateDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveAdvisor(model string, d time.Duration, err error, costUSD float64) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.AdvisorDuration.WithLabelValues(model, result).Observe(d.Seconds())
	if costUSD > 0 {
		m.AdvisorCostUSD.WithLabelValues(model).Add(costUSD)
	}
}
