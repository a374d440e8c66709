package core

import "fmt"

// Names of the parameters the capacity resolver consumes.
const (
	ParamOperationalLife       = "OperationalLife"
	ParamLocalResidualCapacity = "LocalResidualCapacity"
	ParamTimeStep              = "TimeStep"
)

// CapacityPlan precomputes the survivorship structure of the year axis:
// which historic build years are still alive in a given year, which
// retire exactly then, and how much residual capacity drops between
// successive years. All folds over the year axis walk the ordered
// YEAR set explicitly; nothing here assumes uniform intervals.
type CapacityPlan struct {
	index  *IndexRegistry
	params *ParameterStore
}

// NewCapacityPlan wires the resolver to the run's registry and store.
func NewCapacityPlan(index *IndexRegistry, params *ParameterStore) *CapacityPlan {
	return &CapacityPlan{index: index, params: params}
}

// OperationalLife returns the lifetime in years of a technology in a
// region.
func (p *CapacityPlan) OperationalLife(region, tech string) (float64, error) {
	return p.params.Lookup(ParamOperationalLife, region, tech)
}

// SurvivingBuildYears returns the build years whose vintages are still
// operating in year: 0 <= year - build < OperationalLife.
func (p *CapacityPlan) SurvivingBuildYears(region, tech string, year int) ([]int, error) {
	life, err := p.OperationalLife(region, tech)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, build := range p.index.Years() {
		age := year - build
		if age >= 0 && float64(age) < life {
			out = append(out, build)
		}
	}
	return out, nil
}

// EndOfLifeBuildYears returns the build years whose vintages retire
// exactly in year: year - build == OperationalLife, build strictly
// earlier than year.
func (p *CapacityPlan) EndOfLifeBuildYears(region, tech string, year int) ([]int, error) {
	life, err := p.OperationalLife(region, tech)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, build := range p.index.Years() {
		if year-build > 0 && float64(year-build) == life {
			out = append(out, build)
		}
	}
	return out, nil
}

// PreviousYear returns the year preceding year on the axis, or ok=false
// for the first year.
func (p *CapacityPlan) PreviousYear(year int) (int, bool) {
	years := p.index.Years()
	for i, y := range years {
		if y == year {
			if i == 0 {
				return 0, false
			}
			return years[i-1], true
		}
	}
	return 0, false
}

// YearStep returns the interval width ending at year. An explicit
// TimeStep override takes precedence; otherwise the width is read off
// the axis, with the first year borrowing the width of the interval
// that follows it.
func (p *CapacityPlan) YearStep(year int) (int, error) {
	if p.params.Declared(ParamTimeStep) {
		if v, err := p.params.Lookup(ParamTimeStep, yearID(year)); err == nil && v > 0 {
			return int(v), nil
		}
	}
	years := p.index.Years()
	if len(years) == 0 {
		return 0, fmt.Errorf("%w: empty YEAR axis", ErrSchema)
	}
	if len(years) == 1 {
		return 1, nil
	}
	for i, y := range years {
		if y != year {
			continue
		}
		if i == 0 {
			return years[1] - years[0], nil
		}
		return years[i] - years[i-1], nil
	}
	return 0, fmt.Errorf("%w: year %d not on the YEAR axis", ErrSchema, year)
}

// ResidualDrop returns how much residual capacity of a technology at a
// location falls between the previous year and year. Negative drops,
// which would imply residual capacity appearing from nowhere, clamp to
// zero. The first model year has no predecessor and yields zero.
func (p *CapacityPlan) ResidualDrop(loc, tech string, year int) (float64, error) {
	prev, ok := p.PreviousYear(year)
	if !ok {
		return 0, nil
	}
	before, err := p.params.Lookup(ParamLocalResidualCapacity, loc, tech, yearID(prev))
	if err != nil {
		return 0, err
	}
	now, err := p.params.Lookup(ParamLocalResidualCapacity, loc, tech, yearID(year))
	if err != nil {
		return 0, err
	}
	drop := before - now
	if drop < 0 {
		drop = 0
	}
	return drop, nil
}
