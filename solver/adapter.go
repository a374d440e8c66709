// Package solver is the boundary between compiled problems and the LP
// solver. The compiler never links solver internals; it hands a
// model.Problem to an Adapter and interprets the Result.
package solver

import (
	"context"
	"errors"

	"github.com/gridfoundry/capex-compiler/model"
)

// ErrSolver marks failures inside the solver boundary: submission
// errors, timeouts, and solver-side breakage.
var ErrSolver = errors.New("solver error")

// Adapter submits a compiled problem and retrieves the outcome. Solve
// honors ctx cancellation and deadline as an upper bound on top of any
// time limit carried in the options.
type Adapter interface {
	Solve(ctx context.Context, p *model.Problem, opts model.SolverOptions) (*model.Result, error)
}
