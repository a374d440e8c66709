package model

import "time"

// SolverStatus is the coarse outcome of a solve attempt. Anything beyond
// this classification (iteration counts, crossover behaviour, numerical
// quality) is solver policy and stays on the adapter side.
type SolverStatus string

const (
	StatusOptimal    SolverStatus = "optimal"
	StatusInfeasible SolverStatus = "infeasible"
	StatusUnbounded  SolverStatus = "unbounded"
	StatusError      SolverStatus = "error"
)

// SolverOptions carries tuning knobs through to the solver adapter. The
// compiler never interprets these; unrecognized names are the adapter's
// problem to reject.
type SolverOptions struct {
	TimeLimit time.Duration
	Threads   int
	Presolve  string // "" | "off" | "choose" | "on"

	// Opaque pass-through options, keyed by the solver's own option names.
	FloatOptions  map[string]float64
	IntOptions    map[string]int
	BoolOptions   map[string]bool
	StringOptions map[string]string
}

// Result maps a solve outcome back onto compiled identifiers. Primal is
// keyed by variable label, Dual (shadow prices, present only when the
// solver reports duals) by row label.
type Result struct {
	Status    SolverStatus
	Objective float64
	Primal    map[string]float64
	Dual      map[string]float64
}
