package core

import "github.com/gridfoundry/capex-compiler/model"

// pairedLocations returns the locations of a region admitting the given
// technology under the hub pairing, in LOCATION order.
func pairedLocations(in *Instance, region, tech string) []string {
	var out []string
	for _, loc := range in.Index.LocationsInRegion(region) {
		if hubPaired(in, loc, tech) {
			out = append(out, loc)
		}
	}
	return out
}

// capacityTemplates covers the capacity adequacy group: regional
// roll-ups of new, accumulated and total capacity, the survivorship sum
// over build years, and the activity-versus-capacity bound.
func capacityTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "CA0_NewCapacity",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarNewCapacity, Tuple: []string{r, t, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalNewCapacity, Tuple: []string{l, t, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "CA1_TotalNewCapacity_1",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				region := regionOf(in, l)
				builds, err := in.Plan.SurvivingBuildYears(region, t, in.YearOf(y))
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarLocalAccumulatedNewCapacity, Tuple: []string{l, t, y}, Coef: 1}}
				for _, yy := range builds {
					terms = append(terms, Term{Var: VarLocalNewCapacity, Tuple: []string{l, t, yearID(yy)}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "CA2_TotalNewCapacity_2",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarAccumulatedNewCapacity, Tuple: []string{r, t, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalAccumulatedNewCapacity, Tuple: []string{l, t, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "CA3_TotalAnnualCapacity_1",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				resid := in.Param(ParamLocalResidualCapacity, l, t, y)
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalTotalCapacity, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalAccumulatedNewCapacity, Tuple: []string{l, t, y}, Coef: -1},
					},
					Rel: model.RelEq,
					RHS: resid,
				}, nil
			},
		},
		{
			Name: "CA4_TotalAnnualCapacity_2",
			Sets: []string{SetRegion, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, t, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarTotalCapacity, Tuple: []string{r, t, y}, Coef: 1}}
				for _, l := range pairedLocations(in, r, t) {
					terms = append(terms, Term{Var: VarLocalTotalCapacity, Tuple: []string{l, t, y}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "CA5_ConstraintCapacity",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if !hubPaired(in, l, t) {
					return nil, nil
				}
				region := regionOf(in, l)
				avail := in.Param(ParamAvailabilityFactor, region, t, y)
				toActivity := in.Param(ParamCapacityToActivityUnit, region, t)
				return &RowSpec{
					Terms: []Term{
						{Var: VarLocalActivity, Tuple: []string{l, t, y}, Coef: 1},
						{Var: VarLocalTotalCapacity, Tuple: []string{l, t, y}, Coef: -avail * toActivity},
					},
					Rel: model.RelLe,
				}, nil
			},
		},
	}
}
