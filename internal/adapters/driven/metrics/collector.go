// Package metrics exposes orchestration runs as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/core/ports/driven"
)

// Ensure Collector implements the interface.
var _ driven.RunObserver = (*Collector)(nil)

// Namespace prefixes every metric name.
const Namespace = "healthrag"

// Collector records orchestration runs on its own registry.
type Collector struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	runIterations  prometheus.Histogram
	runsUnanswered *prometheus.CounterVec
	outcomes       *prometheus.CounterVec
	synthesis      *prometheus.CounterVec
}

// NewCollector creates a collector with a fresh registry.
// Set withRuntime to also export Go runtime and process metrics.
func NewCollector(withRuntime bool) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Total number of orchestration runs",
			},
			[]string{"strategy"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Time spent querying sources per run",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
			},
			[]string{"strategy"},
		),
		runIterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "iterative_passes",
				Help:      "Plan passes per iterative run",
				Buckets:   prometheus.LinearBuckets(1, 2, domain.MaxPlanIterations/2+1),
			},
		),
		runsUnanswered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_without_found_total",
				Help:      "Runs in which no source produced text",
			},
			[]string{"strategy"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "source_outcomes_total",
				Help:      "Classified source lookups",
			},
			[]string{"source", "outcome"},
		),
		synthesis: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "synthesis_total",
				Help:      "Answer synthesis attempts",
			},
			[]string{"strategy", "status"},
		),
	}

	registry.MustRegister(
		c.runs,
		c.runDuration,
		c.runIterations,
		c.runsUnanswered,
		c.outcomes,
		c.synthesis,
	)
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(run *domain.StrategyRun) {
	if run == nil {
		return
	}
	strategy := run.Strategy.String()

	c.runs.WithLabelValues(strategy).Inc()
	c.runDuration.WithLabelValues(strategy).Observe(run.Elapsed.Seconds())
	if run.Strategy == domain.StrategyIterative {
		c.runIterations.Observe(float64(run.Iterations))
	}
	if !run.HasFound() {
		c.runsUnanswered.WithLabelValues(strategy).Inc()
	}
	for _, o := range run.Outcomes {
		c.outcomes.WithLabelValues(o.Source.String(), o.Kind.String()).Inc()
	}
}

// ObserveSynthesis records one synthesis attempt.
func (c *Collector) ObserveSynthesis(strategy domain.Strategy, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.synthesis.WithLabelValues(strategy.String(), status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
