package core

import (
	"strings"

	"github.com/gridfoundry/capex-compiler/model"
)

// Parameter names of the standard catalog, beyond the ones owned by the
// capacity, transport and cost helpers.
const (
	ParamModeForTechnology     = "ModeForTechnology"
	ParamProductFromTechnology = "ProductFromTechnology"
	ParamProductToTechnology   = "ProductToTechnology"

	ParamTransportRoute              = "TransportRoute"
	ParamTransportCapacity           = "TransportCapacity"
	ParamMultiPurposeTransport       = "MultiPurposeTransport"
	ParamTransportCapacityToActivity = "TransportCapacityToActivity"
	ParamTransportCostByMode         = "TransportCostByMode"
	ParamTransportCostInterReg       = "TransportCostInterReg"

	ParamDemand                 = "Demand"
	ParamCapacityToActivityUnit = "CapacityToActivityUnit"
	ParamAvailabilityFactor     = "AvailabilityFactor"
	ParamInputActivityRatio     = "InputActivityRatio"
	ParamOutputActivityRatio    = "OutputActivityRatio"

	ParamCapitalCost  = "CapitalCost"
	ParamVariableCost = "VariableCost"
	ParamFixedCost    = "FixedCost"

	ParamTotalAnnualMaxCapacity                  = "TotalAnnualMaxCapacity"
	ParamTotalAnnualMinCapacity                  = "TotalAnnualMinCapacity"
	ParamLocalTotalAnnualMaxCapacityInvestment   = "LocalTotalAnnualMaxCapacityInvestment"
	ParamLocalTotalAnnualMinCapacityInvestment   = "LocalTotalAnnualMinCapacityInvestment"
	ParamTotalTechnologyAnnualActivityUpperLimit = "TotalTechnologyAnnualActivityUpperLimit"
	ParamTotalTechnologyAnnualActivityLowerLimit = "TotalTechnologyAnnualActivityLowerLimit"
	ParamTotalTechnologyPeriodActivityUpperLimit = "TotalTechnologyModelPeriodActivityUpperLimit"
	ParamTotalTechnologyPeriodActivityLowerLimit = "TotalTechnologyModelPeriodActivityLowerLimit"

	ParamEmissionActivityRatio        = "EmissionActivityRatio"
	ParamEmissionsPenalty             = "EmissionsPenalty"
	ParamAnnualExogenousEmission      = "AnnualExogenousEmission"
	ParamAnnualEmissionLimit          = "AnnualEmissionLimit"
	ParamModelPeriodExogenousEmission = "ModelPeriodExogenousEmission"
	ParamModelPeriodEmissionLimit     = "ModelPeriodEmissionLimit"

	ParamRetrofitTechnology      = "RetrofitTechnology"
	ParamTechnologyToRetrofit    = "TechnologyToRetrofit"
	ParamMatchTechnologyRetrofit = "MatchTechnologyRetrofit"
)

// RetrofitHeadroom is the tolerance on retrofit-receiving investment
// relative to the potential released by the source technologies.
const RetrofitHeadroom = 1.1

// Variable family names.
const (
	VarLocalNewCapacity            = "LocalNewCapacity"
	VarNewCapacity                 = "NewCapacity"
	VarLocalAccumulatedNewCapacity = "LocalAccumulatedNewCapacity"
	VarAccumulatedNewCapacity      = "AccumulatedNewCapacity"
	VarLocalTotalCapacity          = "LocalTotalCapacity"
	VarTotalCapacity               = "TotalCapacity"

	VarLocalActivityByMode = "LocalActivityByMode"
	VarLocalActivity       = "LocalActivity"
	VarActivity            = "Activity"
	VarModelPeriodActivity = "ModelPeriodActivity"

	VarLocalProductionByMode       = "LocalProductionByMode"
	VarLocalProductionByTechnology = "LocalProductionByTechnology"
	VarLocalProduction             = "LocalProduction"
	VarProduction                  = "Production"
	VarLocalUseByMode              = "LocalUseByMode"
	VarLocalUseByTechnology        = "LocalUseByTechnology"
	VarLocalUse                    = "LocalUse"
	VarUse                         = "Use"

	VarTransport = "Transport"
	VarImport    = "Import"
	VarExport    = "Export"

	VarLocalCapitalInvestment           = "LocalCapitalInvestment"
	VarLocalDiscountedCapitalInvestment = "LocalDiscountedCapitalInvestment"
	VarDiscountedCapitalInvestment      = "DiscountedCapitalInvestment"
	VarSalvageValue                     = "SalvageValue"
	VarDiscountedSalvageValue           = "DiscountedSalvageValue"

	VarLocalVariableOperatingCost   = "LocalVariableOperatingCost"
	VarLocalFixedOperatingCost      = "LocalFixedOperatingCost"
	VarLocalOperatingCost           = "LocalOperatingCost"
	VarLocalDiscountedOperatingCost = "LocalDiscountedOperatingCost"
	VarDiscountedOperatingCost      = "DiscountedOperatingCost"

	VarLocalTransportCost             = "LocalTransportCost"
	VarLocalDiscountedTransportCost   = "LocalDiscountedTransportCost"
	VarDiscountedTransportCostProduct = "DiscountedTransportCostByProduct"
	VarDiscountedTransportCost        = "DiscountedTransportCost"

	VarTotalDiscountedCost     = "TotalDiscountedCost"
	VarModelPeriodCostByRegion = "ModelPeriodCostByRegion"
	VarModelPeriodCost         = "ModelPeriodCost"

	VarLocalTechnologyEmissionByMode = "LocalTechnologyEmissionByMode"
	VarLocalTechnologyEmission       = "LocalTechnologyEmission"
	VarAnnualTechnologyEmission      = "AnnualTechnologyEmission"
	VarAnnualTechnologyEmissionPenaltyByEmission = "AnnualTechnologyEmissionPenaltyByEmission"
	VarAnnualTechnologyEmissionsPenalty          = "AnnualTechnologyEmissionsPenalty"
	VarDiscountedTechnologyEmissionsPenalty      = "DiscountedTechnologyEmissionsPenalty"
	VarAnnualEmissions                           = "AnnualEmissions"
	VarModelPeriodEmissions                      = "ModelPeriodEmissions"

	VarPotentialRetrofitFromResidual = "PotentialRetrofitFromResidual"
	VarPotentialRetrofitFromNew      = "PotentialRetrofitFromNew"
)

// DeclareStandardParams declares the full parameter catalog with its
// defaults. Sets must be declared on the registry first.
func DeclareStandardParams(s *ParameterStore) error {
	decls := []struct {
		name     string
		fallback float64
		sets     []string
	}{
		{ParamModeForTechnology, 0, []string{SetTechnology, SetMode}},
		{ParamProductFromTechnology, 0, []string{SetTechnology, SetProduct}},
		{ParamProductToTechnology, 0, []string{SetTechnology, SetProduct}},
		{ParamTimeStep, 0, []string{SetYear}},
		{ParamHubLocation, 0, []string{SetLocation}},
		{ParamHubTechnology, 0, []string{SetTechnology}},

		{ParamDiscountRate, 0.05, []string{SetRegion}},
		{ParamTransportRoute, 0, []string{SetLocation, SetLocation, SetProduct, SetTransportMode, SetYear}},
		{ParamTransportCapacity, 0, []string{SetLocation, SetLocation, SetProduct, SetTransportMode, SetYear}},
		{ParamMultiPurposeTransport, 0, []string{SetTransportMode}},
		{ParamDepreciationMethod, DepreciationSinkingFund, []string{SetRegion}},

		{ParamDemand, 0, []string{SetRegion, SetProduct, SetYear}},

		{ParamTransportCapacityToActivity, 1, []string{SetTransportMode}},
		{ParamCapacityToActivityUnit, 1, []string{SetRegion, SetTechnology}},
		{ParamAvailabilityFactor, 1, []string{SetRegion, SetTechnology, SetYear}},
		{ParamOperationalLife, 1, []string{SetRegion, SetTechnology}},
		{ParamLocalResidualCapacity, 0, []string{SetLocation, SetTechnology, SetYear}},
		{ParamInputActivityRatio, 0, []string{SetRegion, SetTechnology, SetProduct, SetMode, SetYear}},
		{ParamOutputActivityRatio, 0, []string{SetRegion, SetTechnology, SetProduct, SetMode, SetYear}},

		{ParamCapitalCost, 0, []string{SetRegion, SetTechnology, SetYear}},
		{ParamVariableCost, 0, []string{SetRegion, SetTechnology, SetMode, SetYear}},
		{ParamFixedCost, 0, []string{SetRegion, SetTechnology, SetYear}},
		{ParamTransportCostByMode, 0, []string{SetRegion, SetTransportMode, SetYear}},
		{ParamTransportCostInterReg, 0, []string{SetRegion, SetRegion, SetTransportMode, SetYear}},

		{ParamTotalAnnualMaxCapacity, HighMax, []string{SetRegion, SetTechnology, SetYear}},
		{ParamTotalAnnualMinCapacity, 0, []string{SetRegion, SetTechnology, SetYear}},
		{ParamLocalTotalAnnualMaxCapacityInvestment, HighMax, []string{SetLocation, SetTechnology, SetYear}},
		{ParamLocalTotalAnnualMinCapacityInvestment, 0, []string{SetLocation, SetTechnology, SetYear}},
		{ParamTotalTechnologyAnnualActivityUpperLimit, HighMax, []string{SetRegion, SetTechnology, SetYear}},
		{ParamTotalTechnologyAnnualActivityLowerLimit, 0, []string{SetRegion, SetTechnology, SetYear}},
		{ParamTotalTechnologyPeriodActivityUpperLimit, HighMax, []string{SetRegion, SetTechnology}},
		{ParamTotalTechnologyPeriodActivityLowerLimit, 0, []string{SetRegion, SetTechnology}},

		{ParamEmissionActivityRatio, 0, []string{SetRegion, SetTechnology, SetEmission, SetMode, SetYear}},
		{ParamEmissionsPenalty, 0, []string{SetRegion, SetEmission, SetYear}},
		{ParamAnnualExogenousEmission, 0, []string{SetRegion, SetEmission, SetYear}},
		{ParamAnnualEmissionLimit, HighMax, []string{SetRegion, SetEmission, SetYear}},
		{ParamModelPeriodExogenousEmission, 0, []string{SetRegion, SetEmission}},
		{ParamModelPeriodEmissionLimit, HighMax, []string{SetRegion, SetEmission}},

		{ParamRetrofitTechnology, 0, []string{SetTechnology}},
		{ParamTechnologyToRetrofit, 0, []string{SetTechnology}},
		{ParamMatchTechnologyRetrofit, 0, []string{SetTechnology, SetTechnology}},
	}
	for _, d := range decls {
		if err := s.Declare(d.name, d.fallback, d.sets...); err != nil {
			return err
		}
	}
	return nil
}

// hubPaired reports whether a technology may exist at a location: hub
// technologies live on hub locations, plant technologies everywhere
// else, never crosswise.
func hubPaired(in *Instance, loc, tech string) bool {
	return isHubLocation(in, loc) == isHubTechnology(in, tech)
}

func isHubLocation(in *Instance, loc string) bool {
	return in.Param(ParamHubLocation, loc) == 1
}

// isHubTechnology recognizes hub-dispatch technologies either by the
// HubTechnology flag or, under hub routing, by the reserved marker in
// their name.
func isHubTechnology(in *Instance, tech string) bool {
	if in.Param(ParamHubTechnology, tech) == 1 {
		return true
	}
	if !in.Options.TransportHub {
		return false
	}
	marker := in.Options.Reserved.HubTechnologyMarker
	return marker != "" && strings.Contains(tech, marker)
}

func modeAllowed(in *Instance, tech, mode string) bool {
	return in.Param(ParamModeForTechnology, tech, mode) == 1
}

func produces(in *Instance, tech, product string) bool {
	return in.Param(ParamProductFromTechnology, tech, product) == 1
}

func consumes(in *Instance, tech, product string) bool {
	return in.Param(ParamProductToTechnology, tech, product) == 1
}

func routed(in *Instance, from, to, product, mode, year string) bool {
	return in.Param(ParamTransportRoute, from, to, product, mode, year) == 1
}

// regionOf resolves the region of a location, latching a schema error
// on an unmapped one.
func regionOf(in *Instance, loc string) string {
	region, ok := in.Index.RegionOf(loc)
	if !ok {
		in.fail(errNoRegion(loc))
		return ""
	}
	return region
}

// BuildDefinition assembles the standard symbolic model: every variable
// family and constraint template of the capacity, balance, transport,
// cost, limit and emission groups, plus the retrofit group when enabled.
func BuildDefinition(opts model.Options) (*Definition, error) {
	d := NewDefinition()

	if err := registerVariables(d, opts); err != nil {
		return nil, err
	}

	groups := [][]ConstraintTemplate{
		capacityTemplates(),
		balanceTemplates(),
		transportTemplates(),
		capitalCostTemplates(),
		operatingCostTemplates(),
		transportCostTemplates(),
		totalCostTemplates(opts),
		limitTemplates(),
		emissionTemplates(),
	}
	if opts.IncludeSalvageValue {
		groups = append(groups, salvageTemplates())
	}
	if opts.Retrofit {
		groups = append(groups, retrofitTemplates())
	}
	for _, group := range groups {
		for _, t := range group {
			if err := d.AddTemplate(t); err != nil {
				return nil, err
			}
		}
	}

	d.SetObjective(ObjectiveDef{Build: buildObjective})
	return d, nil
}

// buildObjective minimizes the sum of discounted model period costs over
// all regions.
func buildObjective(in *Instance) ([]Term, error) {
	regions, err := in.Index.Resolve(SetRegion)
	if err != nil {
		return nil, err
	}
	terms := make([]Term, 0, len(regions))
	for _, r := range regions {
		terms = append(terms, Term{Var: VarModelPeriodCostByRegion, Tuple: []string{r}, Coef: 1})
	}
	return terms, nil
}
