package core

import (
	"fmt"

	"github.com/gridfoundry/capex-compiler/model"
)

// Term is one coefficient on one indexed variable inside a row or the
// objective.
type Term struct {
	Var   string
	Tuple []string
	Coef  float64
}

// RowSpec is the symbolic output of one constraint template at one tuple.
// A nil RowSpec from a builder means "no constraint here"; the expander
// records nothing, it does not emit a slack row.
type RowSpec struct {
	Terms []Term
	Rel   model.Relation
	RHS   float64
}

// VariableDef declares one family of decision variables over index sets.
// Prune, when set, is consulted per tuple; returning true suppresses the
// variable entirely, so downstream templates referencing it see an
// undefined reference unless they guard the same way. Bounds, when set,
// overrides the static Lower/Upper per tuple.
type VariableDef struct {
	Name    string
	Sets    []string
	Lower   float64
	Upper   float64
	Integer bool
	Prune   func(in *Instance, tuple []string) bool
	Bounds  func(in *Instance, tuple []string) (lower, upper float64)
}

// ConstraintTemplate declares one family of constraints over index sets.
// Build is invoked once per tuple of the cartesian product of Sets.
type ConstraintTemplate struct {
	Name  string
	Sets  []string
	Build func(in *Instance, tuple []string) (*RowSpec, error)
}

// ObjectiveDef assembles the objective row.
type ObjectiveDef struct {
	Build    func(in *Instance) ([]Term, error)
	Maximize bool
}

// Definition is the symbolic model: a flat registry of variable families,
// constraint templates and the objective. Templates are plain entries in
// registration order; composition happens by registering more templates,
// never by layering.
type Definition struct {
	variables []VariableDef
	varIndex  map[string]int
	templates []ConstraintTemplate
	tmplIndex map[string]int
	objective ObjectiveDef
}

// NewDefinition creates an empty symbolic model.
func NewDefinition() *Definition {
	return &Definition{
		varIndex:  make(map[string]int),
		tmplIndex: make(map[string]int),
	}
}

// AddVariable registers a variable family. Duplicate names are schema
// errors.
func (d *Definition) AddVariable(def VariableDef) error {
	if def.Name == "" {
		return fmt.Errorf("%w: variable family with empty name", ErrSchema)
	}
	if _, dup := d.varIndex[def.Name]; dup {
		return fmt.Errorf("%w: variable family %q already registered", ErrSchema, def.Name)
	}
	d.varIndex[def.Name] = len(d.variables)
	d.variables = append(d.variables, def)
	return nil
}

// AddTemplate registers a constraint template. Duplicate names are schema
// errors.
func (d *Definition) AddTemplate(t ConstraintTemplate) error {
	if t.Name == "" {
		return fmt.Errorf("%w: constraint template with empty name", ErrSchema)
	}
	if t.Build == nil {
		return fmt.Errorf("%w: constraint template %q has no builder", ErrSchema, t.Name)
	}
	if _, dup := d.tmplIndex[t.Name]; dup {
		return fmt.Errorf("%w: constraint template %q already registered", ErrSchema, t.Name)
	}
	d.tmplIndex[t.Name] = len(d.templates)
	d.templates = append(d.templates, t)
	return nil
}

// SetObjective installs the objective assembler.
func (d *Definition) SetObjective(obj ObjectiveDef) { d.objective = obj }

// Variables returns the registered variable families in registration order.
func (d *Definition) Variables() []VariableDef { return d.variables }

// Templates returns the registered constraint templates in registration
// order.
func (d *Definition) Templates() []ConstraintTemplate { return d.templates }

// Variable looks up one family by name.
func (d *Definition) Variable(name string) (VariableDef, bool) {
	i, ok := d.varIndex[name]
	if !ok {
		return VariableDef{}, false
	}
	return d.variables[i], true
}
