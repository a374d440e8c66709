package core

import (
	"errors"
	"testing"
)

func paramTestIndex(t *testing.T) *IndexRegistry {
	t.Helper()
	r := NewIndexRegistry()
	if err := r.DeclareSet(SetRegion, []string{"EU"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetTechnology, []string{"ELECTROLYSER", "SMR"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetYear, []string{"2030", "2035"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	return r
}

func TestLookupFallsBackToDefault(t *testing.T) {
	s := NewParameterStore(paramTestIndex(t))
	if err := s.Declare(ParamAvailabilityFactor, 1, SetRegion, SetTechnology, SetYear); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := s.Set(ParamAvailabilityFactor, 0.9, "EU", "SMR", "2030"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Lookup(ParamAvailabilityFactor, "EU", "SMR", "2030")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != 0.9 {
		t.Fatalf("override = %v, want 0.9", got)
	}

	got, err = s.Lookup(ParamAvailabilityFactor, "EU", "ELECTROLYSER", "2035")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != 1 {
		t.Fatalf("default = %v, want 1", got)
	}
}

func TestSetRejectsWrongArityAndUnknownMembers(t *testing.T) {
	s := NewParameterStore(paramTestIndex(t))
	if err := s.Declare(ParamOperationalLife, 1, SetRegion, SetTechnology); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	if err := s.Set(ParamOperationalLife, 20, "EU"); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for wrong arity, got %v", err)
	}
	if err := s.Set(ParamOperationalLife, 20, "EU", "FUSION"); !errors.Is(err, ErrUndefinedRef) {
		t.Fatalf("expected ErrUndefinedRef for unknown member, got %v", err)
	}
	if err := s.Set("NoSuchParam", 1); !errors.Is(err, ErrUndefinedRef) {
		t.Fatalf("expected ErrUndefinedRef for undeclared parameter, got %v", err)
	}
}

func TestDeclareRejectsUnknownSetAndRedeclaration(t *testing.T) {
	s := NewParameterStore(paramTestIndex(t))
	if err := s.Declare("Demand", 0, SetRegion, "PRODUCT", SetYear); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for undeclared index set, got %v", err)
	}
	if err := s.Declare(ParamDiscountRate, 0.05, SetRegion); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := s.Declare(ParamDiscountRate, 0.05, SetRegion); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for redeclaration, got %v", err)
	}
}

func TestForEachVisitsOverridesInStableOrder(t *testing.T) {
	s := NewParameterStore(paramTestIndex(t))
	if err := s.Declare(ParamCapitalCost, 0, SetRegion, SetTechnology, SetYear); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := s.Set(ParamCapitalCost, 850, "EU", "SMR", "2030"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ParamCapitalCost, 400, "EU", "ELECTROLYSER", "2030"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var keys []string
	if err := s.ForEach(ParamCapitalCost, func(tuple []string, value float64) {
		keys = append(keys, tuple[1])
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if len(keys) != 2 || keys[0] != "ELECTROLYSER" || keys[1] != "SMR" {
		t.Fatalf("override order = %v, want [ELECTROLYSER SMR]", keys)
	}
}

func TestIsUnbounded(t *testing.T) {
	if !IsUnbounded(HighMax) {
		t.Fatalf("sentinel should read as unbounded")
	}
	if !IsUnbounded(HighMax * 10) {
		t.Fatalf("values above the sentinel are unbounded too")
	}
	if IsUnbounded(1e19) {
		t.Fatalf("finite limits below the sentinel are bounded")
	}
}
