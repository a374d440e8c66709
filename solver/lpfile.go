package solver

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gridfoundry/capex-compiler/model"
)

// WriteLP renders the problem in CPLEX LP format. Compiled problems are
// already in a canonical order, so the output is byte-identical for the
// same input.
func WriteLP(w io.Writer, p *model.Problem) error {
	bw := bufio.NewWriter(w)

	if p.Maximize {
		fmt.Fprintln(bw, "Maximize")
	} else {
		fmt.Fprintln(bw, "Minimize")
	}
	fmt.Fprint(bw, " obj:")
	wrote := false
	for i, c := range p.Objective {
		if c == 0 {
			continue
		}
		writeTerm(bw, c, p.Variables[i].Label(), !wrote)
		wrote = true
	}
	if !wrote {
		fmt.Fprint(bw, " 0 "+freeVarName(p))
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Subject To")
	for _, row := range p.Rows {
		fmt.Fprintf(bw, " %s:", row.Label())
		for j, col := range row.Cols {
			writeTerm(bw, row.Vals[j], p.Variables[col].Label(), j == 0)
		}
		fmt.Fprintf(bw, " %s %s\n", relSymbol(row.Rel), num(row.RHS))
	}

	fmt.Fprintln(bw, "Bounds")
	for _, v := range p.Variables {
		writeBound(bw, v)
	}

	if generals := integerLabels(p); len(generals) > 0 {
		fmt.Fprintln(bw, "General")
		for _, name := range generals {
			fmt.Fprintf(bw, " %s\n", name)
		}
	}

	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

func writeTerm(w io.Writer, coef float64, name string, first bool) {
	switch {
	case coef < 0:
		fmt.Fprintf(w, " - %s %s", num(-coef), name)
	case first:
		fmt.Fprintf(w, " %s %s", num(coef), name)
	default:
		fmt.Fprintf(w, " + %s %s", num(coef), name)
	}
}

func writeBound(w io.Writer, v model.Variable) {
	lo, hi := v.Lower, v.Upper
	name := v.Label()
	switch {
	case math.IsInf(lo, -1) && math.IsInf(hi, 1):
		fmt.Fprintf(w, " %s free\n", name)
	case math.IsInf(lo, -1):
		fmt.Fprintf(w, " -inf <= %s <= %s\n", name, num(hi))
	case math.IsInf(hi, 1):
		if lo == 0 {
			return // the format's default bound
		}
		fmt.Fprintf(w, " %s >= %s\n", name, num(lo))
	case lo == hi:
		fmt.Fprintf(w, " %s = %s\n", name, num(lo))
	default:
		fmt.Fprintf(w, " %s <= %s <= %s\n", num(lo), name, num(hi))
	}
}

func integerLabels(p *model.Problem) []string {
	var names []string
	for _, v := range p.Variables {
		if v.Integer {
			names = append(names, v.Label())
		}
	}
	return names
}

func relSymbol(r model.Relation) string {
	switch r {
	case model.RelEq:
		return "="
	case model.RelGe:
		return ">="
	default:
		return "<="
	}
}

// freeVarName picks a variable to anchor a degenerate objective line.
// The format requires at least one term after "obj:".
func freeVarName(p *model.Problem) string {
	if len(p.Variables) > 0 {
		return p.Variables[0].Label()
	}
	return "x0"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
