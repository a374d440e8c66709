package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bartolsthoorn/gohighs/highs"

	"github.com/gridfoundry/capex-compiler/model"
)

// HiGHS solves compiled problems in-process through the HiGHS bindings.
// The zero value is ready to use.
type HiGHS struct{}

// NewHiGHS returns an in-process HiGHS adapter.
func NewHiGHS() *HiGHS { return &HiGHS{} }

// Solve submits the problem and retrieves primal values and, for LP
// solves, row duals. The solve itself runs in a worker goroutine so a
// ctx deadline or cancellation returns promptly; the ctx deadline is
// also forwarded as a solver time limit when the options carry none.
func (h *HiGHS) Solve(ctx context.Context, p *model.Problem, opts model.SolverOptions) (*model.Result, error) {
	m := buildModel(p)

	solveOpts := []highs.SolveOption{highs.WithOutput(false)}
	limit := opts.TimeLimit.Seconds()
	if limit <= 0 {
		if deadline, ok := ctx.Deadline(); ok {
			limit = time.Until(deadline).Seconds()
		}
	}
	if limit > 0 {
		solveOpts = append(solveOpts, highs.WithTimeLimit(limit))
	}
	if opts.Threads > 0 {
		solveOpts = append(solveOpts, highs.WithThreads(opts.Threads))
	}
	if opts.Presolve != "" {
		solveOpts = append(solveOpts, highs.WithPresolve(opts.Presolve))
	}
	for name, v := range opts.BoolOptions {
		solveOpts = append(solveOpts, highs.WithBoolOption(name, v))
	}
	for name, v := range opts.IntOptions {
		solveOpts = append(solveOpts, highs.WithIntOption(name, v))
	}
	for name, v := range opts.FloatOptions {
		solveOpts = append(solveOpts, highs.WithFloatOption(name, v))
	}
	for name, v := range opts.StringOptions {
		solveOpts = append(solveOpts, highs.WithStringOption(name, v))
	}

	type outcome struct {
		sol *highs.Solution
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		sol, err := m.Solve(solveOpts...)
		done <- outcome{sol: sol, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrSolver, ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSolver, out.err)
		}
		return mapSolution(p, out.sol), nil
	}
}

// buildModel lowers the compiled problem into the bindings' model form.
func buildModel(p *model.Problem) *highs.Model {
	n := len(p.Variables)
	m := &highs.Model{
		Maximize: p.Maximize,
		ColCosts: append([]float64(nil), p.Objective...),
		ColLower: make([]float64, n),
		ColUpper: make([]float64, n),
		RowLower: make([]float64, len(p.Rows)),
		RowUpper: make([]float64, len(p.Rows)),
	}
	integer := false
	for i, v := range p.Variables {
		m.ColLower[i] = v.Lower
		m.ColUpper[i] = v.Upper
		if v.Integer {
			integer = true
		}
	}
	if integer {
		m.VarTypes = make([]highs.VariableType, n)
		for i, v := range p.Variables {
			if v.Integer {
				m.VarTypes[i] = highs.Integer
			}
		}
	}
	for i, row := range p.Rows {
		switch row.Rel {
		case model.RelEq:
			m.RowLower[i], m.RowUpper[i] = row.RHS, row.RHS
		case model.RelLe:
			m.RowLower[i], m.RowUpper[i] = math.Inf(-1), row.RHS
		case model.RelGe:
			m.RowLower[i], m.RowUpper[i] = row.RHS, math.Inf(1)
		}
		for j, col := range row.Cols {
			m.ConstMatrix = append(m.ConstMatrix, highs.Nonzero{Row: i, Col: col, Val: row.Vals[j]})
		}
	}
	return m
}

// mapSolution translates the bindings' outcome onto compiled labels.
func mapSolution(p *model.Problem, sol *highs.Solution) *model.Result {
	res := &model.Result{Objective: sol.Objective}
	switch {
	case sol.IsOptimal():
		res.Status = model.StatusOptimal
	case sol.IsInfeasible():
		res.Status = model.StatusInfeasible
	case sol.IsUnbounded():
		res.Status = model.StatusUnbounded
	default:
		res.Status = model.StatusError
	}

	if len(sol.ColValues) == len(p.Variables) {
		res.Primal = make(map[string]float64, len(p.Variables))
		for i, v := range p.Variables {
			res.Primal[v.Label()] = sol.ColValues[i]
		}
	}
	if len(sol.RowDuals) == len(p.Rows) {
		res.Dual = make(map[string]float64, len(p.Rows))
		for i, row := range p.Rows {
			res.Dual[row.Label()] = sol.RowDuals[i]
		}
	}
	return res
}
