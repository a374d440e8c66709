package core

import "github.com/gridfoundry/capex-compiler/model"

// limitTemplates covers the optional capacity, investment and activity
// limits. Upper limits left at the unbounded sentinel and lower limits
// left at zero emit nothing: the variable's own sign bound already
// covers them.
func limitTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "TCC1_TotalAnnualMaxCapacityConstraint",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamTotalAnnualMaxCapacity, r, t, y)
				if IsUnbounded(limit) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarTotalCapacity, Tuple: []string{r, t, y}, Coef: 1}},
					Rel:   model.RelLe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "TCC2_TotalAnnualMinCapacityConstraint",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamTotalAnnualMinCapacity, r, t, y)
				if limit == 0 {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarTotalCapacity, Tuple: []string{r, t, y}, Coef: 1}},
					Rel:   model.RelGe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "NCC1_LocalTotalAnnualMaxNewCapacityConstraint",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamLocalTotalAnnualMaxCapacityInvestment, l, t, y)
				if IsUnbounded(limit) || !hubPaired(in, l, t) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarLocalNewCapacity, Tuple: []string{l, t, y}, Coef: 1}},
					Rel:   model.RelLe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "NCC2_LocalTotalAnnualMinNewCapacityConstraint",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamLocalTotalAnnualMinCapacityInvestment, l, t, y)
				if limit == 0 || !hubPaired(in, l, t) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarLocalNewCapacity, Tuple: []string{l, t, y}, Coef: 1}},
					Rel:   model.RelGe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "AAC0_LocalAnnualTechnologyActivity",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				terms := []Term{{Var: VarLocalActivity, Tuple: []string{l, t, y}, Coef: 1}}
				for _, m := range allowedModes(in, t) {
					terms = append(terms, Term{Var: VarLocalActivityByMode, Tuple: []string{l, t, m, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "AAC1_TotalAnnualTechnologyActivity",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarActivity, Tuple: []string{r, t, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalActivity, Tuple: []string{l, t, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "AAC2_TotalAnnualTechnologyActivityUpperLimit",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamTotalTechnologyAnnualActivityUpperLimit, r, t, y)
				if IsUnbounded(limit) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarActivity, Tuple: []string{r, t, y}, Coef: 1}},
					Rel:   model.RelLe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "AAC3_TotalAnnualTechnologyActivityLowerLimit",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamTotalTechnologyAnnualActivityLowerLimit, r, t, y)
				if limit == 0 {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarActivity, Tuple: []string{r, t, y}, Coef: 1}},
					Rel:   model.RelGe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "TAC1_TotalModelHorizonTechnologyActivity",
			Sets: []string{SetRegion, SetTechnology},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t := tuple[0], tuple[1]
				terms := []Term{{Var: VarModelPeriodActivity, Tuple: []string{r, t}, Coef: 1}}
				for _, y := range in.Index.Years() {
					terms = append(terms, Term{Var: VarActivity, Tuple: []string{r, t, yearID(y)}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TAC2_TotalModelHorizonTechnologyActivityUpperLimit",
			Sets: []string{SetRegion, SetTechnology},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t := tuple[0], tuple[1]
				limit := in.Param(ParamTotalTechnologyPeriodActivityUpperLimit, r, t)
				if IsUnbounded(limit) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarModelPeriodActivity, Tuple: []string{r, t}, Coef: 1}},
					Rel:   model.RelLe,
					RHS:   limit,
				}, nil
			},
		},
		{
			Name: "TAC3_TotalModelHorizonTechnologyActivityLowerLimit",
			Sets: []string{SetRegion, SetTechnology},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t := tuple[0], tuple[1]
				limit := in.Param(ParamTotalTechnologyPeriodActivityLowerLimit, r, t)
				if limit == 0 {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarModelPeriodActivity, Tuple: []string{r, t}, Coef: 1}},
					Rel:   model.RelGe,
					RHS:   limit,
				}, nil
			},
		},
	}
}
