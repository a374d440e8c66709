package model

import (
	"fmt"
	"strings"
)

// Relation is the comparison operator of a constraint row.
type Relation int

const (
	RelEq Relation = iota
	RelLe
	RelGe
)

func (r Relation) String() string {
	switch r {
	case RelEq:
		return "="
	case RelLe:
		return "<="
	case RelGe:
		return ">="
	default:
		return "?"
	}
}

// Variable is one solver column: a named, index-tuple-qualified decision
// variable with bounds. Integer is reserved for the discrete-capacity
// extension and stays false for plain LP compilations.
type Variable struct {
	Name    string
	Tuple   []string
	Lower   float64
	Upper   float64
	Integer bool
}

// Label renders the canonical solver-facing identifier, e.g.
// "LocalNewCapacity(PLANT_A,BF_BOF,2030)".
func (v Variable) Label() string {
	return Label(v.Name, v.Tuple)
}

// Row is one constraint: sparse coefficients over variable columns, a
// relation, and a right-hand side. Cols indexes into Problem.Variables
// and is sorted ascending; Vals is parallel to Cols.
type Row struct {
	Name  string
	Tuple []string
	Cols  []int
	Vals  []float64
	Rel   Relation
	RHS   float64
}

// Label renders the canonical constraint identifier.
func (r Row) Label() string {
	return Label(r.Name, r.Tuple)
}

// Problem is the compiled, solver-facing form of a concrete model:
// ordered variables with bounds, ordered sparse rows, and objective
// coefficients parallel to Variables. Ordering is deterministic
// (lexicographic by name, then tuple), so two compilations of identical
// input serialize byte-identically.
type Problem struct {
	Variables []Variable
	Rows      []Row
	Objective []float64
	Maximize  bool
}

// NumNonzeros counts coefficient entries across all rows.
func (p *Problem) NumNonzeros() int {
	n := 0
	for _, r := range p.Rows {
		n += len(r.Cols)
	}
	return n
}

// Label renders the canonical identifier for a named, tuple-qualified
// entity.
func Label(name string, tuple []string) string {
	if len(tuple) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(tuple, ","))
}
