package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gridfoundry/capex-compiler/model"
)

func smallInstance(t *testing.T) *Instance {
	t.Helper()
	r := NewIndexRegistry()
	if err := r.DeclareSet(SetYear, []string{"2030", "2035"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetTechnology, []string{"ELECTROLYSER", "SMR"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	s := NewParameterStore(r)
	return NewInstance(r, s, nil, nil, nil, model.DefaultOptions())
}

func TestInstantiateMaterializesCartesianProduct(t *testing.T) {
	in := smallInstance(t)
	def := NewDefinition()
	if err := def.AddVariable(VariableDef{
		Name: "Build",
		Sets: []string{SetTechnology, SetYear},
	}); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}

	cm, err := Instantiate(def, in)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	vars := cm.Instance.Variables()
	if len(vars) != 4 {
		t.Fatalf("expected 4 variables, got %d", len(vars))
	}
	// Registration order times set order.
	want := [][]string{
		{"ELECTROLYSER", "2030"}, {"ELECTROLYSER", "2035"},
		{"SMR", "2030"}, {"SMR", "2035"},
	}
	for i, w := range want {
		if !reflect.DeepEqual(vars[i].Tuple, w) {
			t.Fatalf("vars[%d].Tuple = %v, want %v", i, vars[i].Tuple, w)
		}
	}
}

func TestInstantiatePrunesAndBounds(t *testing.T) {
	in := smallInstance(t)
	def := NewDefinition()
	if err := def.AddVariable(VariableDef{
		Name:  "Build",
		Sets:  []string{SetTechnology},
		Upper: 10,
		Prune: func(in *Instance, tuple []string) bool {
			return tuple[0] == "SMR"
		},
		Bounds: func(in *Instance, tuple []string) (float64, float64) {
			return 2, 8
		},
	}); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}

	cm, err := Instantiate(def, in)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	vars := cm.Instance.Variables()
	if len(vars) != 1 {
		t.Fatalf("expected pruning to leave 1 variable, got %d", len(vars))
	}
	if vars[0].Tuple[0] != "ELECTROLYSER" {
		t.Fatalf("wrong survivor: %v", vars[0].Tuple)
	}
	if vars[0].Lower != 2 || vars[0].Upper != 8 {
		t.Fatalf("bounds = [%v,%v], want [2,8]", vars[0].Lower, vars[0].Upper)
	}
	if cm.Instance.HasVar("Build", "SMR") {
		t.Fatalf("pruned variable should not exist")
	}
}

func TestInstantiateDropsVacuousRows(t *testing.T) {
	in := smallInstance(t)
	def := NewDefinition()
	if err := def.AddVariable(VariableDef{Name: "Build", Sets: []string{SetTechnology}}); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := def.AddTemplate(ConstraintTemplate{
		Name: "Cap",
		Sets: []string{SetTechnology},
		Build: func(in *Instance, tuple []string) (*RowSpec, error) {
			switch tuple[0] {
			case "ELECTROLYSER":
				// All-zero coefficients: the row must vanish rather than
				// become 0 <= RHS.
				return &RowSpec{
					Terms: []Term{{Var: "Build", Tuple: tuple, Coef: 0}},
					Rel:   model.RelLe,
					RHS:   5,
				}, nil
			default:
				return nil, nil
			}
		},
	}); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}

	cm, err := Instantiate(def, in)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if len(cm.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(cm.Rows))
	}
}

func TestInstantiateKeepsRegistrationOrderAcrossTemplates(t *testing.T) {
	def := NewDefinition()
	if err := def.AddVariable(VariableDef{Name: "Build", Sets: []string{SetTechnology}}); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	mk := func(name string) ConstraintTemplate {
		return ConstraintTemplate{
			Name: name,
			Sets: []string{SetTechnology},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				return &RowSpec{
					Terms: []Term{{Var: "Build", Tuple: tuple, Coef: 1}},
					Rel:   model.RelGe,
				}, nil
			},
		}
	}
	for _, name := range []string{"First", "Second", "Third"} {
		if err := def.AddTemplate(mk(name)); err != nil {
			t.Fatalf("AddTemplate: %v", err)
		}
	}

	// Templates expand concurrently; output order must not depend on
	// scheduling. Run a few times to give interleavings a chance.
	for trial := 0; trial < 5; trial++ {
		cm, err := Instantiate(def, smallInstance(t))
		if err != nil {
			t.Fatalf("Instantiate: %v", err)
		}
		var names []string
		for _, row := range cm.Rows {
			names = append(names, row.Name)
		}
		want := []string{"First", "First", "Second", "Second", "Third", "Third"}
		if !reflect.DeepEqual(names, want) {
			t.Fatalf("trial %d: row order = %v, want %v", trial, names, want)
		}
	}
}

func TestInstantiateSurfacesBuilderErrors(t *testing.T) {
	in := smallInstance(t)
	def := NewDefinition()
	if err := def.AddTemplate(ConstraintTemplate{
		Name: "Broken",
		Sets: []string{SetTechnology},
		Build: func(in *Instance, tuple []string) (*RowSpec, error) {
			return nil, errors.New("boom")
		},
	}); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}

	if _, err := Instantiate(def, in); err == nil {
		t.Fatalf("expected builder error to propagate")
	}
}

func TestInstanceParamLatchesLookupFailures(t *testing.T) {
	in := smallInstance(t)

	// Undeclared parameter: the read returns zero and the error latches.
	if v := in.Param("NoSuchParam"); v != 0 {
		t.Fatalf("failed read = %v, want 0", v)
	}
	if err := in.Err(); !errors.Is(err, ErrUndefinedRef) {
		t.Fatalf("expected latched ErrUndefinedRef, got %v", err)
	}
}

func TestVarIDUndefinedReference(t *testing.T) {
	in := smallInstance(t)
	if _, err := in.VarID("Build", "ELECTROLYSER"); !errors.Is(err, ErrUndefinedRef) {
		t.Fatalf("expected ErrUndefinedRef, got %v", err)
	}
}
