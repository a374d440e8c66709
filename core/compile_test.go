package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gridfoundry/capex-compiler/model"
)

func compileTestModel(t *testing.T) *ConcreteModel {
	t.Helper()
	in := smallInstance(t)
	def := NewDefinition()
	if err := def.AddVariable(VariableDef{
		Name: "Build",
		Sets: []string{SetTechnology, SetYear},
	}); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := def.AddTemplate(ConstraintTemplate{
		Name: "Cap",
		Sets: []string{SetTechnology},
		Build: func(in *Instance, tuple []string) (*RowSpec, error) {
			return &RowSpec{
				Terms: []Term{
					{Var: "Build", Tuple: []string{tuple[0], "2030"}, Coef: 1},
					{Var: "Build", Tuple: []string{tuple[0], "2035"}, Coef: 1},
				},
				Rel: model.RelLe,
				RHS: 100,
			}, nil
		},
	}); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}
	def.SetObjective(ObjectiveDef{
		Build: func(in *Instance) ([]Term, error) {
			return []Term{
				{Var: "Build", Tuple: []string{"SMR", "2030"}, Coef: 2},
				{Var: "Build", Tuple: []string{"ELECTROLYSER", "2030"}, Coef: 3},
			}, nil
		},
	})

	cm, err := Instantiate(def, in)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	return cm
}

func TestCompileOrdersVariablesAndRows(t *testing.T) {
	p, err := Compile(compileTestModel(t))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var labels []string
	for _, v := range p.Variables {
		labels = append(labels, v.Label())
	}
	want := []string{
		"Build(ELECTROLYSER,2030)", "Build(ELECTROLYSER,2035)",
		"Build(SMR,2030)", "Build(SMR,2035)",
	}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("variable order = %v, want %v", labels, want)
	}

	if len(p.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(p.Rows))
	}
	if p.Rows[0].Tuple[0] != "ELECTROLYSER" || p.Rows[1].Tuple[0] != "SMR" {
		t.Fatalf("rows not in tuple order: %v %v", p.Rows[0].Tuple, p.Rows[1].Tuple)
	}

	// Objective lines up with the sorted columns.
	if p.Objective[0] != 3 || p.Objective[2] != 2 {
		t.Fatalf("objective = %v", p.Objective)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	first, err := Compile(compileTestModel(t))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for trial := 0; trial < 3; trial++ {
		again, err := Compile(compileTestModel(t))
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("trial %d: repeated compilation differs", trial)
		}
	}
}

func TestCompileMergesDuplicateColumns(t *testing.T) {
	in := smallInstance(t)
	def := NewDefinition()
	if err := def.AddVariable(VariableDef{Name: "Build", Sets: []string{SetTechnology}}); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if err := def.AddTemplate(ConstraintTemplate{
		Name: "Twice",
		Sets: nil,
		Build: func(in *Instance, tuple []string) (*RowSpec, error) {
			return &RowSpec{
				Terms: []Term{
					{Var: "Build", Tuple: []string{"SMR"}, Coef: 1},
					{Var: "Build", Tuple: []string{"SMR"}, Coef: 2.5},
				},
				Rel: model.RelEq,
				RHS: 7,
			}, nil
		},
	}); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}
	def.SetObjective(ObjectiveDef{
		Build: func(in *Instance) ([]Term, error) {
			return []Term{{Var: "Build", Tuple: []string{"SMR"}, Coef: 1}}, nil
		},
	})

	cm, err := Instantiate(def, in)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	p, err := Compile(cm)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(p.Rows[0].Cols) != 1 || p.Rows[0].Vals[0] != 3.5 {
		t.Fatalf("merged row = cols %v vals %v, want one column at 3.5",
			p.Rows[0].Cols, p.Rows[0].Vals)
	}
}

func TestCompileRejectsDanglingReference(t *testing.T) {
	cm := compileTestModel(t)
	cm.Rows = append(cm.Rows, RowInstance{
		Name:  "Bad",
		Terms: []Term{{Var: "Ghost", Tuple: []string{"X"}, Coef: 1}},
		Rel:   model.RelEq,
	})
	if _, err := Compile(cm); !errors.Is(err, ErrCompile) {
		t.Fatalf("expected ErrCompile, got %v", err)
	}
}

func TestCompileRejectsEmptyObjective(t *testing.T) {
	cm := compileTestModel(t)
	cm.Objective = nil
	if _, err := Compile(cm); !errors.Is(err, ErrCompile) {
		t.Fatalf("expected ErrCompile for empty objective, got %v", err)
	}

	cm = compileTestModel(t)
	cm.Objective = []Term{{Var: "Build", Tuple: []string{"SMR", "2030"}, Coef: 0}}
	if _, err := Compile(cm); !errors.Is(err, ErrCompile) {
		t.Fatalf("expected ErrCompile for all-zero objective, got %v", err)
	}
}
