package core

import "github.com/gridfoundry/capex-compiler/model"

// capitalCostTemplates prices new capacity and discounts it to the
// start of its build year, then rolls it up regionally.
func capitalCostTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "CC1_UndiscountedCapitalInvestment",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				cost := in.Param(ParamCapitalCost, regionOf(in, l), t, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalCapitalInvestment, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalNewCapacity, Tuple: []string{l, t, y}, Coef: -cost},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "CC2_DiscountedCapitalInvestment_1",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				factor := in.DiscountToStart(regionOf(in, l), in.YearOf(y))
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalDiscountedCapitalInvestment, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalCapitalInvestment, Tuple: []string{l, t, y}, Coef: -1 / factor},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "CC3_DiscountedCapitalInvestment_2",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarDiscountedCapitalInvestment, Tuple: []string{r, t, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalDiscountedCapitalInvestment, Tuple: []string{l, t, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
	}
}

// salvageTemplates values capacity still alive past the horizon and
// discounts it back to the start of the first interval. The whole group
// is optional and off by default.
func salvageTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "SV1_SalvageValueAtEndOfPeriod",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				frac, err := in.Costs.SalvageFraction(r, t, in.YearOf(y))
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarSalvageValue, Tuple: []string{r, t, y}, Coef: 1}}
				if frac > 0 {
					cost := in.Param(ParamCapitalCost, r, t, y)
					terms = append(terms, Term{Var: VarNewCapacity, Tuple: []string{r, t, y}, Coef: -cost * frac})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "SV2_SalvageValueDiscountedToStartYear",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				factor, err := in.Costs.DiscountHorizon(r)
				if err != nil {
					return nil, err
				}
				return &RowSpec{
					Terms: []Term{
						{Var: VarDiscountedSalvageValue, Tuple: []string{r, t, y}, Coef: 1},
						{Var: VarSalvageValue, Tuple: []string{r, t, y}, Coef: -1 / factor},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
	}
}

// operatingCostTemplates prices activity (variable) and standing
// capacity (fixed), discounts the sum to the interval midpoint and
// rolls it up regionally.
func operatingCostTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "OC1_OperatingCostsVariable",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				region := regionOf(in, l)
				terms := []Term{{Var: VarLocalVariableOperatingCost, Tuple: []string{l, t, y}, Coef: 1}}
				for _, m := range allowedModes(in, t) {
					cost := in.Param(ParamVariableCost, region, t, m, y)
					terms = append(terms, Term{Var: VarLocalActivityByMode, Tuple: []string{l, t, m, y}, Coef: -cost})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "OC2_OperatingCostsFixedAnnual",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				cost := in.Param(ParamFixedCost, regionOf(in, l), t, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalFixedOperatingCost, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalTotalCapacity, Tuple: []string{l, t, y}, Coef: -cost},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "OC3_OperatingCostsTotalAnnual",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalOperatingCost, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalFixedOperatingCost, Tuple: []string{l, t, y}, Coef: -1},
						{Var: VarLocalVariableOperatingCost, Tuple: []string{l, t, y}, Coef: -1},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "OC4_DiscountedOperatingCostsTotalAnnual_1",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				factor := in.DiscountMidInterval(regionOf(in, l), in.YearOf(y))
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalDiscountedOperatingCost, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalOperatingCost, Tuple: []string{l, t, y}, Coef: -1 / factor},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "OC5_DiscountedOperatingCostsTotalAnnual_2",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarDiscountedOperatingCost, Tuple: []string{r, t, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalDiscountedOperatingCost, Tuple: []string{l, t, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
	}
}

// transportCostTemplates prices inbound flows per location. Hubs carry
// the inter-regional tariff on top of the per-mode tariff for flows
// arriving from other regions' hubs.
func transportCostTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "TC1_LocalTransportCosts",
			Sets: []string{SetLocation, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, y := tuple[0], tuple[1], tuple[2]
				region := regionOf(in, l)
				locs, err := in.Index.Resolve(SetLocation)
				if err != nil {
					return nil, err
				}
				modes, err := in.Index.Resolve(SetTransportMode)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarLocalTransportCost, Tuple: []string{l, p, y}, Coef: 1}}
				hub := isHubLocation(in, l)
				for _, from := range locs {
					for _, tr := range modes {
						if !routed(in, from, l, p, tr, y) {
							continue
						}
						cost := in.Param(ParamTransportCostByMode, region, tr, y)
						if hub && isHubLocation(in, from) {
							cost += in.Param(ParamTransportCostInterReg, regionOf(in, from), region, tr, y)
						}
						terms = append(terms, Term{Var: VarTransport, Tuple: []string{from, l, p, tr, y}, Coef: -cost})
					}
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TC2_DiscountedLocalTransportCosts",
			Sets: []string{SetLocation, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, y := tuple[0], tuple[1], tuple[2]
				factor := in.DiscountMidInterval(regionOf(in, l), in.YearOf(y))
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalDiscountedTransportCost, Tuple: []string{l, p, y}, Coef: 1},
						{Var: VarLocalTransportCost, Tuple: []string{l, p, y}, Coef: -1 / factor},
					},
					Rel: model.RelEq,
				}, nil
			},
		},
		{
			Name: "TC3_DiscountedTransportCostsByProduct",
			Sets: []string{SetRegion, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, p, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarDiscountedTransportCostProduct, Tuple: []string{r, p, y}, Coef: 1}}
				for _, l := range in.Index.LocationsInRegion(r) {
					terms = append(terms, Term{Var: VarLocalDiscountedTransportCost, Tuple: []string{l, p, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TC4_DiscountedTransportCostsTotalAnnual",
			Sets: []string{SetRegion, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, y := tuple[0], tuple[1]
				products, err := in.Index.Resolve(SetProduct)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarDiscountedTransportCost, Tuple: []string{r, y}, Coef: 1}}
				for _, p := range products {
					terms = append(terms, Term{Var: VarDiscountedTransportCostProduct, Tuple: []string{r, p, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
	}
}

// totalCostTemplates closes the cost accounting: annual totals per
// region, the period sum per region, and the period sum over regions
// the objective minimizes.
func totalCostTemplates(opts model.Options) []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "TDC1_TotalDiscountedCost",
			Sets: []string{SetRegion, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, y := tuple[0], tuple[1]
				techs, err := in.Index.Resolve(SetTechnology)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarTotalDiscountedCost, Tuple: []string{r, y}, Coef: 1}}
				for _, t := range techs {
					terms = append(terms,
						Term{Var: VarDiscountedOperatingCost, Tuple: []string{r, t, y}, Coef: -1},
						Term{Var: VarDiscountedCapitalInvestment, Tuple: []string{r, t, y}, Coef: -1},
						Term{Var: VarDiscountedTechnologyEmissionsPenalty, Tuple: []string{r, t, y}, Coef: -1},
					)
					if opts.IncludeSalvageValue {
						terms = append(terms, Term{Var: VarDiscountedSalvageValue, Tuple: []string{r, t, y}, Coef: 1})
					}
				}
				terms = append(terms, Term{Var: VarDiscountedTransportCost, Tuple: []string{r, y}, Coef: -1})
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TDC2_ModelPeriodCostByRegion",
			Sets: []string{SetRegion},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r := tuple[0]
				terms := []Term{{Var: VarModelPeriodCostByRegion, Tuple: []string{r}, Coef: 1}}
				for _, y := range in.Index.Years() {
					terms = append(terms, Term{Var: VarTotalDiscountedCost, Tuple: []string{r, yearID(y)}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TDC3_ModelPeriodCost",
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				regions, err := in.Index.Resolve(SetRegion)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarModelPeriodCost, Coef: 1}}
				for _, r := range regions {
					terms = append(terms, Term{Var: VarModelPeriodCostByRegion, Tuple: []string{r}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
	}
}
