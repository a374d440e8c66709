package solver

import (
	"math"
	"testing"

	"github.com/bartolsthoorn/gohighs/highs"
)

func TestBuildModelLowersRowRelations(t *testing.T) {
	p := lpTestProblem()
	m := buildModel(p)

	if m.Maximize {
		t.Fatalf("direction flipped during lowering")
	}
	if len(m.ColCosts) != len(p.Variables) || m.ColCosts[1] != 1 {
		t.Fatalf("objective costs = %v", m.ColCosts)
	}

	// Row 0 is >= 10, row 1 is = 0.
	if !math.IsInf(m.RowUpper[0], 1) || m.RowLower[0] != 10 {
		t.Fatalf("ge row bounds = [%v, %v]", m.RowLower[0], m.RowUpper[0])
	}
	if m.RowLower[1] != 0 || m.RowUpper[1] != 0 {
		t.Fatalf("eq row bounds = [%v, %v]", m.RowLower[1], m.RowUpper[1])
	}

	want := []highs.Nonzero{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 2, Val: -0.5},
		{Row: 1, Col: 0, Val: 400},
		{Row: 1, Col: 1, Val: -1},
	}
	if len(m.ConstMatrix) != len(want) {
		t.Fatalf("nonzeros = %v, want %v", m.ConstMatrix, want)
	}
	for i, nz := range want {
		if m.ConstMatrix[i] != nz {
			t.Fatalf("nonzero %d = %v, want %v", i, m.ConstMatrix[i], nz)
		}
	}
}

func TestBuildModelVarTypes(t *testing.T) {
	p := lpTestProblem()
	m := buildModel(p)
	if len(m.VarTypes) != len(p.Variables) {
		t.Fatalf("integer column present but VarTypes has %d entries", len(m.VarTypes))
	}
	if m.VarTypes[3] != highs.Integer {
		t.Fatalf("column 3 should be integer")
	}

	// A pure LP omits the type vector entirely.
	for i := range p.Variables {
		p.Variables[i].Integer = false
	}
	if m := buildModel(p); m.VarTypes != nil {
		t.Fatalf("continuous model should not carry VarTypes")
	}
}
