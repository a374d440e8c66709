package core

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gridfoundry/capex-compiler/model"
)

// compareNameTuple orders by name, then tuple element-wise.
func compareNameTuple(aName string, aTuple []string, bName string, bTuple []string) int {
	if aName != bName {
		if aName < bName {
			return -1
		}
		return 1
	}
	return slices.Compare(aTuple, bTuple)
}

// Compile lowers a concrete model to its solver-facing form. Variables
// and rows are ordered lexicographically by name then tuple, so two
// compilations of identical input produce identical output byte for
// byte. Duplicate coefficients on the same column merge by addition.
// A dangling variable reference or an objective touching no variables
// is a compilation error.
func Compile(cm *ConcreteModel) (*model.Problem, error) {
	vars := append([]model.Variable(nil), cm.Instance.Variables()...)
	sort.Slice(vars, func(i, j int) bool {
		return compareNameTuple(vars[i].Name, vars[i].Tuple, vars[j].Name, vars[j].Tuple) < 0
	})
	ids := make(map[string]int, len(vars))
	for i, v := range vars {
		ids[v.Label()] = i
	}

	rows := make([]model.Row, 0, len(cm.Rows))
	for _, ri := range cm.Rows {
		cols, vals, err := resolveTerms(ids, ri.Terms)
		if err != nil {
			return nil, fmt.Errorf("%w: row %s: %v", ErrCompile, model.Label(ri.Name, ri.Tuple), err)
		}
		rows = append(rows, model.Row{
			Name:  ri.Name,
			Tuple: ri.Tuple,
			Cols:  cols,
			Vals:  vals,
			Rel:   ri.Rel,
			RHS:   ri.RHS,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return compareNameTuple(rows[i].Name, rows[i].Tuple, rows[j].Name, rows[j].Tuple) < 0
	})

	objective := make([]float64, len(vars))
	touched := 0
	for _, term := range cm.Objective {
		id, ok := ids[model.Label(term.Var, term.Tuple)]
		if !ok {
			return nil, fmt.Errorf("%w: objective references unknown variable %s",
				ErrCompile, model.Label(term.Var, term.Tuple))
		}
		if objective[id] == 0 && term.Coef != 0 {
			touched++
		}
		objective[id] += term.Coef
	}
	if touched == 0 {
		return nil, fmt.Errorf("%w: objective touches no variables", ErrCompile)
	}

	return &model.Problem{
		Variables: vars,
		Rows:      rows,
		Objective: objective,
		Maximize:  cm.Maximize,
	}, nil
}

// resolveTerms maps symbolic terms to sorted sparse columns, merging
// duplicate references by adding their coefficients.
func resolveTerms(ids map[string]int, terms []Term) ([]int, []float64, error) {
	byCol := make(map[int]float64, len(terms))
	for _, term := range terms {
		id, ok := ids[model.Label(term.Var, term.Tuple)]
		if !ok {
			return nil, nil, fmt.Errorf("unknown variable %s", model.Label(term.Var, term.Tuple))
		}
		byCol[id] += term.Coef
	}
	cols := make([]int, 0, len(byCol))
	for col := range byCol {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	vals := make([]float64, len(cols))
	for i, col := range cols {
		vals[i] = byCol[col]
	}
	return cols, vals, nil
}
