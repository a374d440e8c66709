package core

import (
	"fmt"
	"sort"
	"strconv"
)

// Canonical set names of the standard catalog.
const (
	SetYear          = "YEAR"
	SetTechnology    = "TECHNOLOGY"
	SetTransportMode = "TRANSPORTMODE"
	SetProduct       = "PRODUCT"
	SetRegion        = "REGION"
	SetLocation      = "LOCATION"
	SetEmission      = "EMISSION"
	SetMode          = "MODE_OF_OPERATION"
)

// IndexRegistry holds the named sets of a model run and the validated
// location-to-region membership. It is populated during load and read-only
// for the rest of the run; nothing here needs a lock once loading is done.
type IndexRegistry struct {
	sets    map[string][]string
	members map[string]map[string]struct{}

	// years is the parsed, ascending YEAR axis.
	years []int

	// regionOf maps every location to exactly one region.
	regionOf map[string]string
}

// NewIndexRegistry creates an empty registry.
func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		sets:     make(map[string][]string),
		members:  make(map[string]map[string]struct{}),
		regionOf: make(map[string]string),
	}
}

// DeclareSet registers a named ordered set. Identifiers must be unique
// within the set. Declaring YEAR additionally parses and sorts the year
// axis; non-numeric year identifiers are a schema error.
func (r *IndexRegistry) DeclareSet(name string, ids []string) error {
	if name == "" {
		return fmt.Errorf("%w: empty set name", ErrSchema)
	}
	if _, exists := r.sets[name]; exists {
		return fmt.Errorf("%w: set %q already declared", ErrSchema, name)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: set %q contains an empty identifier", ErrSchema, name)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: set %q contains duplicate identifier %q", ErrSchema, name, id)
		}
		seen[id] = struct{}{}
	}

	if name == SetYear {
		years := make([]int, 0, len(ids))
		for _, id := range ids {
			y, err := strconv.Atoi(id)
			if err != nil {
				return fmt.Errorf("%w: YEAR identifier %q is not numeric", ErrSchema, id)
			}
			years = append(years, y)
		}
		sort.Ints(years)
		ordered := make([]string, len(years))
		for i, y := range years {
			ordered[i] = strconv.Itoa(y)
		}
		r.years = years
		ids = ordered
	}

	r.sets[name] = append([]string(nil), ids...)
	r.members[name] = seen
	return nil
}

// AppendToSet adds further identifiers to an existing set, preserving
// uniqueness. The topology assembler uses this to inject hub locations.
func (r *IndexRegistry) AppendToSet(name string, ids ...string) error {
	if _, ok := r.sets[name]; !ok {
		return fmt.Errorf("%w: set %q not declared", ErrSchema, name)
	}
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty identifier for set %q", ErrSchema, name)
		}
		if _, dup := r.members[name][id]; dup {
			continue
		}
		r.sets[name] = append(r.sets[name], id)
		r.members[name][id] = struct{}{}
	}
	return nil
}

// Resolve returns the ordered identifiers of a set.
func (r *IndexRegistry) Resolve(name string) ([]string, error) {
	ids, ok := r.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: set %q not declared", ErrSchema, name)
	}
	return ids, nil
}

// Contains reports whether id is a member of the named set.
func (r *IndexRegistry) Contains(set, id string) bool {
	m, ok := r.members[set]
	if !ok {
		return false
	}
	_, ok = m[id]
	return ok
}

// Years returns the parsed YEAR axis in ascending order.
func (r *IndexRegistry) Years() []int { return r.years }

// FirstYear returns the earliest model year.
func (r *IndexRegistry) FirstYear() int {
	if len(r.years) == 0 {
		return 0
	}
	return r.years[0]
}

// LastYear returns the final model year.
func (r *IndexRegistry) LastYear() int {
	if len(r.years) == 0 {
		return 0
	}
	return r.years[len(r.years)-1]
}

// BindGeography installs the location-to-region membership. The mapping
// must be total (every declared location maps to exactly one declared
// region); anything else is a schema error.
func (r *IndexRegistry) BindGeography(regionOf map[string]string) error {
	locs, err := r.Resolve(SetLocation)
	if err != nil {
		return err
	}
	if _, err := r.Resolve(SetRegion); err != nil {
		return err
	}

	for loc, reg := range regionOf {
		if !r.Contains(SetLocation, loc) {
			return fmt.Errorf("%w: geography references unknown location %q", ErrSchema, loc)
		}
		if !r.Contains(SetRegion, reg) {
			return fmt.Errorf("%w: geography maps %q to unknown region %q", ErrSchema, loc, reg)
		}
	}
	for _, loc := range locs {
		if _, ok := regionOf[loc]; !ok {
			return fmt.Errorf("%w: location %q has no region", ErrSchema, loc)
		}
	}

	r.regionOf = make(map[string]string, len(regionOf))
	for loc, reg := range regionOf {
		r.regionOf[loc] = reg
	}
	return nil
}

// SetRegionOf maps a single location to a region, used when the topology
// assembler injects hub locations after geography was bound.
func (r *IndexRegistry) SetRegionOf(loc, region string) error {
	if !r.Contains(SetLocation, loc) {
		return fmt.Errorf("%w: unknown location %q", ErrSchema, loc)
	}
	if !r.Contains(SetRegion, region) {
		return fmt.Errorf("%w: unknown region %q", ErrSchema, region)
	}
	r.regionOf[loc] = region
	return nil
}

// RegionOf returns the region a location belongs to.
func (r *IndexRegistry) RegionOf(loc string) (string, bool) {
	reg, ok := r.regionOf[loc]
	return reg, ok
}

// yearID renders a model year as its set identifier.
func yearID(y int) string { return strconv.Itoa(y) }

// LocationsInRegion returns the locations mapped to the given region, in
// LOCATION set order.
func (r *IndexRegistry) LocationsInRegion(region string) []string {
	var out []string
	for _, loc := range r.sets[SetLocation] {
		if r.regionOf[loc] == region {
			out = append(out, loc)
		}
	}
	return out
}
