package core

import "github.com/gridfoundry/capex-compiler/model"

// emissionTemplates covers the emissions accounting chain from per-mode
// rates up to regional and model-period totals, the penalty pricing and
// discounting, and the optional annual/period caps.
func emissionTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "E1_LocalEmissionProductionByMode",
			Sets: []string{SetLocation, SetTechnology, SetEmission, SetMode, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, e, m, y := tuple[0], tuple[1], tuple[2], tuple[3], tuple[4]
				if !hubPaired(in, l, t) || !modeAllowed(in, t, m) {
					return nil, nil
				}
				ratio := in.Param(ParamEmissionActivityRatio, regionOf(in, l), t, e, m, y)
				terms := []Term{{Var: VarLocalTechnologyEmissionByMode, Tuple: []string{l, t, e, m, y}, Coef: 1}}
				if ratio != 0 {
					terms = append(terms, Term{Var: VarLocalActivityByMode, Tuple: []string{l, t, m, y}, Coef: -ratio})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "E2_LocalEmissionProduction",
			Sets: []string{SetLocation, SetTechnology, SetEmission, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, e, y := tuple[0], tuple[1], tuple[2], tuple[3]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				terms := []Term{{Var: VarLocalTechnologyEmission, Tuple: []string{l, t, e, y}, Coef: 1}}
				for _, m := range allowedModes(in, t) {
					terms = append(terms, Term{Var: VarLocalTechnologyEmissionByMode, Tuple: []string{l, t, e, m, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "E3_AnnualEmissionProduction",
			Sets: []string{SetRegion, SetTechnology, SetEmission, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, e, y := tuple[0], tuple[1], tuple[2], tuple[3]
				terms := []Term{{Var: VarAnnualTechnologyEmission, Tuple: []string{r, t, e, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalTechnologyEmission, Tuple: []string{l, t, e, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "E4_EmissionPenaltyByTechAndEmission",
			Sets: []string{SetRegion, SetTechnology, SetEmission, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, e, y := tuple[0], tuple[1], tuple[2], tuple[3]
				penalty := in.Param(ParamEmissionsPenalty, r, e, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarAnnualTechnologyEmissionPenaltyByEmission, Tuple: []string{r, t, e, y}, Coef: 1},
						{Var: VarAnnualTechnologyEmission, Tuple: []string{r, t, e, y}, Coef: -penalty},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "E5_EmissionsPenaltyByTechnology",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				emissions, err := in.Index.Resolve(SetEmission)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarAnnualTechnologyEmissionsPenalty, Tuple: []string{r, t, y}, Coef: 1}}
				for _, e := range emissions {
					terms = append(terms, Term{Var: VarAnnualTechnologyEmissionPenaltyByEmission, Tuple: []string{r, t, e, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "E6_DiscountedEmissionsPenaltyByTechnology",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				factor := in.DiscountMidInterval(r, in.YearOf(y))
				return &RowSpec{
					Terms: []Term{
						{Var: VarDiscountedTechnologyEmissionsPenalty, Tuple: []string{r, t, y}, Coef: 1},
						{Var: VarAnnualTechnologyEmissionsPenalty, Tuple: []string{r, t, y}, Coef: -1 / factor},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "E7_EmissionsAccounting1",
			Sets: []string{SetRegion, SetEmission, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, e, y := tuple[0], tuple[1], tuple[2]
				techs, err := in.Index.Resolve(SetTechnology)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarAnnualEmissions, Tuple: []string{r, e, y}, Coef: 1}}
				for _, t := range techs {
					terms = append(terms, Term{Var: VarAnnualTechnologyEmission, Tuple: []string{r, t, e, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "E8_EmissionsAccounting2",
			Sets: []string{SetRegion, SetEmission},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, e := tuple[0], tuple[1]
				exogenous := in.Param(ParamModelPeriodExogenousEmission, r, e)
				terms := []Term{{Var: VarModelPeriodEmissions, Tuple: []string{r, e}, Coef: 1}}
				for _, y := range in.Index.Years() {
					terms = append(terms, Term{Var: VarAnnualEmissions, Tuple: []string{r, e, yearID(y)}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq, RHS: exogenous}, nil
			},
		},
		{
			Name: "E9_AnnualEmissionsLimit",
			Sets: []string{SetRegion, SetEmission, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, e, y := tuple[0], tuple[1], tuple[2]
				limit := in.Param(ParamAnnualEmissionLimit, r, e, y)
				if IsUnbounded(limit) {
					return nil, nil
				}
				exogenous := in.Param(ParamAnnualExogenousEmission, r, e, y)
				return &RowSpec{
					Terms: []Term{{Var: VarAnnualEmissions, Tuple: []string{r, e, y}, Coef: 1}},
					Rel:   model.RelLe,
					RHS:   limit - exogenous,
				}, nil
			},
		},
		{
			Name: "E10_ModelPeriodEmissionsLimit",
			Sets: []string{SetRegion, SetEmission},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, e := tuple[0], tuple[1]
				limit := in.Param(ParamModelPeriodEmissionLimit, r, e)
				if IsUnbounded(limit) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{{Var: VarModelPeriodEmissions, Tuple: []string{r, e}, Coef: 1}},
					Rel:   model.RelLe,
					RHS:   limit,
				}, nil
			},
		},
	}
}
