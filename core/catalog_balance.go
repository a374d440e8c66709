package core

import "github.com/gridfoundry/capex-compiler/model"

// allowedModes returns the operation modes a technology runs in, in
// MODE_OF_OPERATION order.
func allowedModes(in *Instance, tech string) []string {
	modes, err := in.Index.Resolve(SetMode)
	if err != nil {
		in.fail(err)
		return nil
	}
	var out []string
	for _, m := range modes {
		if modeAllowed(in, tech, m) {
			out = append(out, m)
		}
	}
	return out
}

// balanceTemplates covers the product balance group: production and use
// chained from per-mode rates up to regional totals, closed by the
// demand adequacy row.
func balanceTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "PB1_Production_1",
			Sets: []string{SetLocation, SetProduct, SetTechnology, SetMode, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, t, m, y := tuple[0], tuple[1], tuple[2], tuple[3], tuple[4]
				if !hubPaired(in, l, t) || !modeAllowed(in, t, m) || !produces(in, t, p) {
					return nil, nil
				}
				ratio := in.Param(ParamOutputActivityRatio, regionOf(in, l), t, p, m, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalProductionByMode, Tuple: []string{l, t, p, m, y}, Coef: 1},
						{Var: VarLocalActivityByMode, Tuple: []string{l, t, m, y}, Coef: -ratio},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "PB2_Production_2",
			Sets: []string{SetLocation, SetProduct, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, t, y := tuple[0], tuple[1], tuple[2], tuple[3]
				if !hubPaired(in, l, t) || !produces(in, t, p) {
					return nil, nil
				}
				terms := []Term{{Var: VarLocalProductionByTechnology, Tuple: []string{l, t, p, y}, Coef: 1}}
				for _, m := range allowedModes(in, t) {
					terms = append(terms, Term{Var: VarLocalProductionByMode, Tuple: []string{l, t, p, m, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "PB3_Production_3",
			Sets: []string{SetLocation, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, y := tuple[0], tuple[1], tuple[2]
				techs, err := in.Index.Resolve(SetTechnology)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarLocalProduction, Tuple: []string{l, p, y}, Coef: 1}}
				for _, t := range techs {
					if hubPaired(in, l, t) && produces(in, t, p) {
						terms = append(terms, Term{Var: VarLocalProductionByTechnology, Tuple: []string{l, t, p, y}, Coef: -1})
					}
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "PB4_Production_4",
			Sets: []string{SetRegion, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, p, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarProduction, Tuple: []string{r, p, y}, Coef: 1}}
				for _, l := range in.Index.LocationsInRegion(r) {
					if !isHubLocation(in, l) {
						terms = append(terms, Term{Var: VarLocalProduction, Tuple: []string{l, p, y}, Coef: -1})
					}
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "PB5_Use_1",
			Sets: []string{SetLocation, SetProduct, SetTechnology, SetMode, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, t, m, y := tuple[0], tuple[1], tuple[2], tuple[3], tuple[4]
				if !hubPaired(in, l, t) || !modeAllowed(in, t, m) || !consumes(in, t, p) {
					return nil, nil
				}
				ratio := in.Param(ParamInputActivityRatio, regionOf(in, l), t, p, m, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalUseByMode, Tuple: []string{l, t, p, m, y}, Coef: 1},
						{Var: VarLocalActivityByMode, Tuple: []string{l, t, m, y}, Coef: -ratio},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "PB6_Use_2",
			Sets: []string{SetLocation, SetProduct, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, t, y := tuple[0], tuple[1], tuple[2], tuple[3]
				if !hubPaired(in, l, t) || !consumes(in, t, p) {
					return nil, nil
				}
				terms := []Term{{Var: VarLocalUseByTechnology, Tuple: []string{l, t, p, y}, Coef: 1}}
				for _, m := range allowedModes(in, t) {
					terms = append(terms, Term{Var: VarLocalUseByMode, Tuple: []string{l, t, p, m, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "PB7_Use_3",
			Sets: []string{SetLocation, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, y := tuple[0], tuple[1], tuple[2]
				techs, err := in.Index.Resolve(SetTechnology)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarLocalUse, Tuple: []string{l, p, y}, Coef: 1}}
				for _, t := range techs {
					if hubPaired(in, l, t) && consumes(in, t, p) {
						terms = append(terms, Term{Var: VarLocalUseByTechnology, Tuple: []string{l, t, p, y}, Coef: -1})
					}
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "PB8_Use_4",
			Sets: []string{SetRegion, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, p, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarUse, Tuple: []string{r, p, y}, Coef: 1}}
				for _, l := range in.Index.LocationsInRegion(r) {
					if !isHubLocation(in, l) {
						terms = append(terms, Term{Var: VarLocalUse, Tuple: []string{l, p, y}, Coef: -1})
					}
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "PB9_ProductBalance",
			Sets: []string{SetRegion, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, p, y := tuple[0], tuple[1], tuple[2]
				demand := in.Param(ParamDemand, r, p, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarProduction, Tuple: []string{r, p, y}, Coef: 1},
						{Var: VarImport, Tuple: []string{r, p, y}, Coef: 1},
						{Var: VarExport, Tuple: []string{r, p, y}, Coef: -1},
					},
					Rel: model.RelGe,
					RHS: demand,
				}, nil
			},
		},
	}
}
