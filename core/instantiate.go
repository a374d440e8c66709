package core

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gridfoundry/capex-compiler/model"
)

// RowInstance is one expanded constraint with its terms still symbolic.
type RowInstance struct {
	Name  string
	Tuple []string
	Terms []Term
	Rel   model.Relation
	RHS   float64
}

// ConcreteModel is the output of instantiation: the materialized
// variable table held by the instance, every expanded row, and the
// symbolic objective.
type ConcreteModel struct {
	Instance  *Instance
	Rows      []RowInstance
	Objective []Term
	Maximize  bool
}

// forEachTuple walks the cartesian product of the named sets in set
// order, invoking visit once per tuple. Zero sets yields the single
// empty tuple.
func forEachTuple(index *IndexRegistry, sets []string, visit func(tuple []string) error) error {
	ids := make([][]string, len(sets))
	for i, set := range sets {
		resolved, err := index.Resolve(set)
		if err != nil {
			return err
		}
		ids[i] = resolved
	}
	tuple := make([]string, len(sets))
	var walk func(depth int) error
	walk = func(depth int) error {
		if depth == len(sets) {
			return visit(tuple)
		}
		for _, id := range ids[depth] {
			tuple[depth] = id
			if err := walk(depth + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}

// Instantiate expands a symbolic definition over the instance's sets:
// variables first in registration order, then every constraint template,
// then the objective. Templates expand concurrently; output order is
// fixed by registration and tuple order regardless of scheduling.
func Instantiate(def *Definition, in *Instance) (*ConcreteModel, error) {
	for _, vdef := range def.Variables() {
		vdef := vdef
		err := forEachTuple(in.Index, vdef.Sets, func(tuple []string) error {
			if vdef.Prune != nil && vdef.Prune(in, tuple) {
				return nil
			}
			lower, upper := vdef.Lower, vdef.Upper
			if vdef.Bounds != nil {
				lower, upper = vdef.Bounds(in, tuple)
			}
			in.addVar(model.Variable{
				Name:    vdef.Name,
				Tuple:   append([]string(nil), tuple...),
				Lower:   lower,
				Upper:   upper,
				Integer: vdef.Integer,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := in.Err(); err != nil {
			return nil, err
		}
	}

	templates := def.Templates()
	rowsByTemplate := make([][]RowInstance, len(templates))
	errs := make([]error, len(templates))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for i, t := range templates {
		wg.Add(1)
		go func(i int, t ConstraintTemplate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rowsByTemplate[i], errs[i] = expandTemplate(in, t)
		}(i, t)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", templates[i].Name, err)
		}
	}
	if err := in.Err(); err != nil {
		return nil, err
	}

	var rows []RowInstance
	for _, trs := range rowsByTemplate {
		rows = append(rows, trs...)
	}

	cm := &ConcreteModel{Instance: in, Rows: rows}
	if obj := def.objective; obj.Build != nil {
		terms, err := obj.Build(in)
		if err != nil {
			return nil, err
		}
		cm.Objective = terms
		cm.Maximize = obj.Maximize
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return cm, nil
}

// expandTemplate runs one template over its index space. Builders
// returning a nil spec record nothing; rows whose coefficients are all
// zero are dropped rather than emitted as vacuous constraints.
func expandTemplate(in *Instance, t ConstraintTemplate) ([]RowInstance, error) {
	var rows []RowInstance
	err := forEachTuple(in.Index, t.Sets, func(tuple []string) error {
		spec, err := t.Build(in, tuple)
		if err != nil {
			return err
		}
		if spec == nil {
			return nil
		}
		terms := spec.Terms[:0:0]
		for _, term := range spec.Terms {
			if term.Coef != 0 {
				terms = append(terms, term)
			}
		}
		if len(terms) == 0 {
			return nil
		}
		rows = append(rows, RowInstance{
			Name:  t.Name,
			Tuple: append([]string(nil), tuple...),
			Terms: terms,
			Rel:   spec.Rel,
			RHS:   spec.RHS,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
