package core

import (
	"math"

	"github.com/gridfoundry/capex-compiler/model"
)

// registerVariables declares every variable family of the standard
// model. Families indexed by location and technology exist only where
// the hub pairing holds; mode- and product-qualified families are
// additionally restricted to the combinations the auxiliary membership
// parameters allow; transport flows exist only on declared routes.
func registerVariables(d *Definition, opts model.Options) error {
	inf := math.Inf(1)

	pairLT := func(in *Instance, tuple []string) bool {
		return !hubPaired(in, tuple[0], tuple[1])
	}

	defs := []VariableDef{
		{Name: VarLocalNewCapacity, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarNewCapacity, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},
		{Name: VarLocalAccumulatedNewCapacity, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarAccumulatedNewCapacity, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},
		{Name: VarLocalTotalCapacity, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarTotalCapacity, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},

		{Name: VarLocalActivityByMode, Sets: []string{SetLocation, SetTechnology, SetMode, SetYear}, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !hubPaired(in, tuple[0], tuple[1]) || !modeAllowed(in, tuple[1], tuple[2])
			}},
		{Name: VarLocalActivity, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarActivity, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},
		{Name: VarModelPeriodActivity, Sets: []string{SetRegion, SetTechnology}, Upper: inf},

		{Name: VarLocalProductionByMode, Sets: []string{SetLocation, SetTechnology, SetProduct, SetMode, SetYear}, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !hubPaired(in, tuple[0], tuple[1]) ||
					!modeAllowed(in, tuple[1], tuple[3]) ||
					!produces(in, tuple[1], tuple[2])
			}},
		{Name: VarLocalProductionByTechnology, Sets: []string{SetLocation, SetTechnology, SetProduct, SetYear}, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !hubPaired(in, tuple[0], tuple[1]) || !produces(in, tuple[1], tuple[2])
			}},
		{Name: VarLocalProduction, Sets: []string{SetLocation, SetProduct, SetYear}, Upper: inf},
		{Name: VarProduction, Sets: []string{SetRegion, SetProduct, SetYear}, Upper: inf},

		{Name: VarLocalUseByMode, Sets: []string{SetLocation, SetTechnology, SetProduct, SetMode, SetYear}, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !hubPaired(in, tuple[0], tuple[1]) ||
					!modeAllowed(in, tuple[1], tuple[3]) ||
					!consumes(in, tuple[1], tuple[2])
			}},
		{Name: VarLocalUseByTechnology, Sets: []string{SetLocation, SetTechnology, SetProduct, SetYear}, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !hubPaired(in, tuple[0], tuple[1]) || !consumes(in, tuple[1], tuple[2])
			}},
		{Name: VarLocalUse, Sets: []string{SetLocation, SetProduct, SetYear}, Upper: inf},
		{Name: VarUse, Sets: []string{SetRegion, SetProduct, SetYear}, Upper: inf},

		{Name: VarTransport, Sets: []string{SetLocation, SetLocation, SetProduct, SetTransportMode, SetYear}, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !routed(in, tuple[0], tuple[1], tuple[2], tuple[3], tuple[4])
			}},
		{Name: VarImport, Sets: []string{SetRegion, SetProduct, SetYear}, Upper: inf},
		{Name: VarExport, Sets: []string{SetRegion, SetProduct, SetYear}, Upper: inf},

		{Name: VarLocalCapitalInvestment, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarLocalDiscountedCapitalInvestment, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarDiscountedCapitalInvestment, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},

		// Variable operating cost may run negative, e.g. a stand-alone
		// export terminal paying out per unit shipped.
		{Name: VarLocalVariableOperatingCost, Sets: []string{SetLocation, SetTechnology, SetYear}, Lower: -inf, Upper: inf, Prune: pairLT},
		{Name: VarLocalFixedOperatingCost, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: pairLT},
		{Name: VarLocalOperatingCost, Sets: []string{SetLocation, SetTechnology, SetYear}, Lower: -inf, Upper: inf, Prune: pairLT},
		{Name: VarLocalDiscountedOperatingCost, Sets: []string{SetLocation, SetTechnology, SetYear}, Lower: -inf, Upper: inf, Prune: pairLT},
		{Name: VarDiscountedOperatingCost, Sets: []string{SetRegion, SetTechnology, SetYear}, Lower: -inf, Upper: inf},

		{Name: VarLocalTransportCost, Sets: []string{SetLocation, SetProduct, SetYear}, Upper: inf},
		{Name: VarLocalDiscountedTransportCost, Sets: []string{SetLocation, SetProduct, SetYear}, Upper: inf},
		{Name: VarDiscountedTransportCostProduct, Sets: []string{SetRegion, SetProduct, SetYear}, Upper: inf},
		{Name: VarDiscountedTransportCost, Sets: []string{SetRegion, SetYear}, Upper: inf},

		{Name: VarTotalDiscountedCost, Sets: []string{SetRegion, SetYear}, Lower: -inf, Upper: inf},
		{Name: VarModelPeriodCostByRegion, Sets: []string{SetRegion}, Lower: -inf, Upper: inf},
		{Name: VarModelPeriodCost, Lower: -inf, Upper: inf},

		{Name: VarLocalTechnologyEmissionByMode, Sets: []string{SetLocation, SetTechnology, SetEmission, SetMode, SetYear}, Lower: -inf, Upper: inf,
			Prune: func(in *Instance, tuple []string) bool {
				return !hubPaired(in, tuple[0], tuple[1]) || !modeAllowed(in, tuple[1], tuple[3])
			}},
		{Name: VarLocalTechnologyEmission, Sets: []string{SetLocation, SetTechnology, SetEmission, SetYear}, Lower: -inf, Upper: inf, Prune: pairLT},
		{Name: VarAnnualTechnologyEmission, Sets: []string{SetRegion, SetTechnology, SetEmission, SetYear}, Lower: -inf, Upper: inf},
		{Name: VarAnnualTechnologyEmissionPenaltyByEmission, Sets: []string{SetRegion, SetTechnology, SetEmission, SetYear}, Lower: -inf, Upper: inf},
		{Name: VarAnnualTechnologyEmissionsPenalty, Sets: []string{SetRegion, SetTechnology, SetYear}, Lower: -inf, Upper: inf},
		{Name: VarDiscountedTechnologyEmissionsPenalty, Sets: []string{SetRegion, SetTechnology, SetYear}, Lower: -inf, Upper: inf},
		{Name: VarAnnualEmissions, Sets: []string{SetRegion, SetEmission, SetYear}, Lower: -inf, Upper: inf},
		{Name: VarModelPeriodEmissions, Sets: []string{SetRegion, SetEmission}, Lower: -inf, Upper: inf},
	}

	if opts.IncludeSalvageValue {
		defs = append(defs,
			VariableDef{Name: VarSalvageValue, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},
			VariableDef{Name: VarDiscountedSalvageValue, Sets: []string{SetRegion, SetTechnology, SetYear}, Upper: inf},
		)
	}
	if opts.Retrofit {
		notPlant := func(in *Instance, tuple []string) bool {
			return isHubLocation(in, tuple[0])
		}
		defs = append(defs,
			VariableDef{Name: VarPotentialRetrofitFromResidual, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: notPlant},
			VariableDef{Name: VarPotentialRetrofitFromNew, Sets: []string{SetLocation, SetTechnology, SetYear}, Upper: inf, Prune: notPlant},
		)
	}

	for _, def := range defs {
		if err := d.AddVariable(def); err != nil {
			return err
		}
	}
	return nil
}
