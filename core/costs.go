package core

import (
	"fmt"
	"math"
)

// Parameters consumed by the discounting helpers.
const (
	ParamDiscountRate       = "DiscountRate"
	ParamDepreciationMethod = "DepreciationMethod"
)

// Depreciation methods selecting the salvage value formula.
const (
	DepreciationSinkingFund  = 1
	DepreciationStraightLine = 2
)

// Costs computes discount factors and salvage fractions. Investment is
// discounted to the start of its build year; operating, transport and
// emission flows are discounted to the midpoint of the year's interval.
// Aggregation runs local first and regional second, so every location
// term is discounted with its own region's rate before regional sums
// are formed.
type Costs struct {
	index  *IndexRegistry
	params *ParameterStore
	plan   *CapacityPlan
}

// NewCosts wires the aggregator to the run's registry, store and
// capacity plan.
func NewCosts(index *IndexRegistry, params *ParameterStore, plan *CapacityPlan) *Costs {
	return &Costs{index: index, params: params, plan: plan}
}

// Rate returns the discount rate of a region.
func (c *Costs) Rate(region string) (float64, error) {
	return c.params.Lookup(ParamDiscountRate, region)
}

// RateAt returns the discount rate of the region a location belongs to.
func (c *Costs) RateAt(loc string) (float64, error) {
	region, ok := c.index.RegionOf(loc)
	if !ok {
		return 0, fmt.Errorf("%w: location %q has no region", ErrSchema, loc)
	}
	return c.Rate(region)
}

// DiscountToStart returns the factor dividing a capital outlay made at
// the start of year, relative to the first model year.
func (c *Costs) DiscountToStart(region string, year int) (float64, error) {
	r, err := c.Rate(region)
	if err != nil {
		return 0, err
	}
	return math.Pow(1+r, float64(year-c.index.FirstYear())), nil
}

// DiscountMidInterval returns the factor dividing a flow accrued across
// the interval ending at year, discounted to the interval midpoint:
// (1+r)^(1 + y - (y0 - step0/2 + 1)).
func (c *Costs) DiscountMidInterval(region string, year int) (float64, error) {
	r, err := c.Rate(region)
	if err != nil {
		return 0, err
	}
	step0, err := c.plan.YearStep(c.index.FirstYear())
	if err != nil {
		return 0, err
	}
	exp := float64(year-c.index.FirstYear()) + float64(step0)/2
	return math.Pow(1+r, exp), nil
}

// DiscountHorizon returns the factor dividing a value accrued at the far
// end of the model horizon back to the start of the first interval.
func (c *Costs) DiscountHorizon(region string) (float64, error) {
	r, err := c.Rate(region)
	if err != nil {
		return 0, err
	}
	first, last := c.index.FirstYear(), c.index.LastYear()
	stepFirst, err := c.plan.YearStep(first)
	if err != nil {
		return 0, err
	}
	stepLast, err := c.plan.YearStep(last)
	if err != nil {
		return 0, err
	}
	exp := float64(last-first) + float64(stepFirst+stepLast)/2
	return math.Pow(1+r, exp), nil
}

// SalvageFraction returns the share of a build year's capital cost that
// remains undepreciated past the end of the last modeled interval.
// Vintages fully written off within the horizon salvage nothing.
func (c *Costs) SalvageFraction(region, tech string, buildYear int) (float64, error) {
	life, err := c.plan.OperationalLife(region, tech)
	if err != nil {
		return 0, err
	}
	last := c.index.LastYear()
	stepBuild, err := c.plan.YearStep(buildYear)
	if err != nil {
		return 0, err
	}
	stepLast, err := c.plan.YearStep(last)
	if err != nil {
		return 0, err
	}

	// Interval-midpoint convention: the vintage goes live at the start
	// of its interval and the horizon closes half a step past the last
	// year.
	if float64(buildYear)+float64(stepBuild)/2+life-1 <= float64(last)+float64(stepLast)/2 {
		return 0, nil
	}
	used := float64(last-buildYear) + float64(stepLast+stepBuild)/2

	method, err := c.params.Lookup(ParamDepreciationMethod, region)
	if err != nil {
		return 0, err
	}
	r, err := c.Rate(region)
	if err != nil {
		return 0, err
	}

	switch int(method) {
	case DepreciationSinkingFund:
		if r <= 0 {
			return 1 - used/life, nil
		}
		return 1 - (math.Pow(1+r, used)-1)/(math.Pow(1+r, life)-1), nil
	case DepreciationStraightLine:
		return 1 - used/life, nil
	default:
		return 0, fmt.Errorf("%w: region %q uses unknown depreciation method %v",
			ErrSchema, region, method)
	}
}
