package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stage names used as the "stage" label on duration metrics.
const (
	StageLoad        = "load"
	StageInstantiate = "instantiate"
	StageCompile     = "compile"
	StageSolve       = "solve"
	StageWrite       = "write"
)

// PipelineCollector bundles Prometheus metrics for the compile pipeline and
// provides a ready-to-serve /metrics handler.
type PipelineCollector struct {
	gatherer prometheus.Gatherer

	StageDurations *prometheus.HistogramVec
	SolvesTotal    *prometheus.CounterVec

	ModelVariables prometheus.Gauge
	ModelRows      prometheus.Gauge
	ModelNonzeros  prometheus.Gauge
}

// NewPipelineCollector registers pipeline Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewPipelineCollector(reg prometheus.Registerer) (*PipelineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compile_stage_duration_seconds",
		Help:    "Wall-clock duration of each compile pipeline stage.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"stage"})
	durations, err := registerHistogramVec(reg, durations, "compile_stage_duration_seconds")
	if err != nil {
		return nil, err
	}

	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_solves_total",
		Help: "Total number of solver invocations, labeled by reported status.",
	}, []string{"status"})
	solves, err = registerCounterVec(reg, solves, "solver_solves_total")
	if err != nil {
		return nil, err
	}

	variables, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_variables",
		Help: "Number of variables in the most recently compiled model.",
	}), "model_variables")
	if err != nil {
		return nil, err
	}
	rows, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_rows",
		Help: "Number of constraint rows in the most recently compiled model.",
	}), "model_rows")
	if err != nil {
		return nil, err
	}
	nonzeros, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_nonzeros",
		Help: "Number of nonzero coefficients in the most recently compiled model.",
	}), "model_nonzeros")
	if err != nil {
		return nil, err
	}

	return &PipelineCollector{
		gatherer:       gatherer,
		StageDurations: durations,
		SolvesTotal:    solves,
		ModelVariables: variables,
		ModelRows:      rows,
		ModelNonzeros:  nonzeros,
	}, nil
}

// ObserveStage records the duration of one pipeline stage.
func (c *PipelineCollector) ObserveStage(stage string, d time.Duration) {
	if c == nil || c.StageDurations == nil {
		return
	}
	c.StageDurations.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordSolve counts a solver invocation under its reported status.
func (c *PipelineCollector) RecordSolve(status string) {
	if c == nil || c.SolvesTotal == nil {
		return
	}
	c.SolvesTotal.WithLabelValues(status).Inc()
}

// SetModelSize updates the compiled-model size gauges.
func (c *PipelineCollector) SetModelSize(variables, rows, nonzeros int) {
	if c == nil {
		return
	}
	if c.ModelVariables != nil {
		c.ModelVariables.Set(float64(variables))
	}
	if c.ModelRows != nil {
		c.ModelRows.Set(float64(rows))
	}
	if c.ModelNonzeros != nil {
		c.ModelNonzeros.Set(float64(nonzeros))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PipelineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
