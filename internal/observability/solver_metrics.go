package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SolverCollector exposes solver-specific Prometheus metrics.
type SolverCollector struct {
	gatherer prometheus.Gatherer

	SolveDuration  prometheus.Histogram
	TimeLimitHits  prometheus.Counter
	LastObjective  prometheus.Gauge
	SolvesInFlight prometheus.Gauge
}

// NewSolverCollector registers solver metrics against the provided registerer.
func NewSolverCollector(reg prometheus.Registerer) (*SolverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_solve_duration_seconds",
		Help:    "Wall-clock duration of solver runs.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
	})
	duration, err := registerHistogram(reg, duration, "solver_solve_duration_seconds")
	if err != nil {
		return nil, err
	}

	timeLimits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solver_time_limit_hits_total",
		Help: "Cumulative number of solver runs cut short by the time limit.",
	})
	timeLimits, err = registerCounter(reg, timeLimits, "solver_time_limit_hits_total")
	if err != nil {
		return nil, err
	}

	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solver_last_objective",
		Help: "Objective value reported by the most recent successful solve.",
	})
	objective, err = registerGauge(reg, objective, "solver_last_objective")
	if err != nil {
		return nil, err
	}

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solver_solves_in_flight",
		Help: "Number of solver runs currently executing.",
	})
	inFlight, err = registerGauge(reg, inFlight, "solver_solves_in_flight")
	if err != nil {
		return nil, err
	}

	return &SolverCollector{
		gatherer:       gatherer,
		SolveDuration:  duration,
		TimeLimitHits:  timeLimits,
		LastObjective:  objective,
		SolvesInFlight: inFlight,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SolverCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveSolve records the duration of one solver run.
func (c *SolverCollector) ObserveSolve(d time.Duration) {
	if c == nil || c.SolveDuration == nil {
		return
	}
	c.SolveDuration.Observe(d.Seconds())
}

// IncTimeLimitHits increments the time-limit counter.
func (c *SolverCollector) IncTimeLimitHits() {
	if c == nil || c.TimeLimitHits == nil {
		return
	}
	c.TimeLimitHits.Inc()
}

// SetLastObjective records the objective of the most recent solve.
func (c *SolverCollector) SetLastObjective(v float64) {
	if c == nil || c.LastObjective == nil {
		return
	}
	c.LastObjective.Set(v)
}

// SolveStarted marks a solver run in flight; SolveFinished clears it.
func (c *SolverCollector) SolveStarted() {
	if c == nil || c.SolvesInFlight == nil {
		return
	}
	c.SolvesInFlight.Inc()
}

func (c *SolverCollector) SolveFinished() {
	if c == nil || c.SolvesInFlight == nil {
		return
	}
	c.SolvesInFlight.Dec()
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
