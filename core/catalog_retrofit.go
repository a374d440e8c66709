package core

import "github.com/gridfoundry/capex-compiler/model"

// retrofitTemplates covers the optional retrofit group: potential
// released by residual capacity falling away, potential released by new
// builds reaching end-of-life, and the headroom cap tying retrofit
// investment to the potential of its source technologies.
func retrofitTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "R1_RetrofitPotentialFromResidualCapacity",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				year := in.YearOf(y)
				if isHubLocation(in, l) || year == in.Index.FirstYear() ||
					in.Param(ParamTechnologyToRetrofit, t) == 0 {
					return nil, nil
				}
				drop, err := in.Plan.ResidualDrop(l, t, year)
				if err != nil {
					return nil, err
				}
				return &RowSpec{
					Terms: []Term{{Var: VarPotentialRetrofitFromResidual, Tuple: []string{l, t, y}, Coef: 1}},
					Rel:   model.RelEq,
					RHS:   drop,
				}, nil
			},
		},
		{
			Name: "R2_RetrofitPotentialFromNewCapacity",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				year := in.YearOf(y)
				if isHubLocation(in, l) || year == in.Index.FirstYear() ||
					in.Param(ParamTechnologyToRetrofit, t) == 0 {
					return nil, nil
				}
				builds, err := in.Plan.EndOfLifeBuildYears(regionOf(in, l), t, year)
				if err != nil {
					return nil, err
				}
				terms := []Term{{Var: VarPotentialRetrofitFromNew, Tuple: []string{l, t, y}, Coef: 1}}
				for _, yy := range builds {
					terms = append(terms, Term{Var: VarLocalNewCapacity, Tuple: []string{l, t, yearID(yy)}, Coef: -1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "R3_RetrofitCapacityConstraint",
			Sets: []string{SetLocation, SetTechnology, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, t, y := tuple[0], tuple[1], tuple[2]
				if isHubLocation(in, l) || in.Param(ParamRetrofitTechnology, t) == 0 {
					return nil, nil
				}
				if in.YearOf(y) == in.Index.FirstYear() {
					// Nothing has retired yet, so nothing can be retrofitted.
					return &RowSpec{
						Terms: []Term{{Var: VarLocalNewCapacity, Tuple: []string{l, t, y}, Coef: 1}},
						Rel:   model.RelEq,
					}, nil
				}
				techs, err := in.Index.Resolve(SetTechnology)
				if err != nil {
					return nil, err
				}
				var sources []string
				for _, src := range techs {
					if in.Param(ParamMatchTechnologyRetrofit, src, t) == 1 {
						sources = append(sources, src)
					}
				}
				// Retrofit technologies drawing on any of the same
				// sources compete for the same released capacity.
				var competing []string
				for _, other := range techs {
					if other == t || in.Param(ParamRetrofitTechnology, other) == 0 {
						continue
					}
					for _, src := range sources {
						if in.Param(ParamMatchTechnologyRetrofit, src, other) == 1 {
							competing = append(competing, other)
							break
						}
					}
				}
				terms := []Term{{Var: VarLocalNewCapacity, Tuple: []string{l, t, y}, Coef: 1}}
				for _, other := range competing {
					terms = append(terms, Term{Var: VarLocalNewCapacity, Tuple: []string{l, other, y}, Coef: 1})
				}
				for _, src := range sources {
					terms = append(terms,
						Term{Var: VarPotentialRetrofitFromResidual, Tuple: []string{l, src, y}, Coef: -RetrofitHeadroom},
						Term{Var: VarPotentialRetrofitFromNew, Tuple: []string{l, src, y}, Coef: -RetrofitHeadroom},
					)
				}
				return &RowSpec{Terms: terms, Rel: model.RelLe}, nil
			},
		},
	}
}
