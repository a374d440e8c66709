package core

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gridfoundry/capex-compiler/model"
)

// Instance is the evaluation context handed to variable prunes, bounds
// and constraint builders during expansion. It bundles the frozen run
// inputs and the variable table built so far.
//
// Param reads latch their first failure instead of returning an error,
// which keeps builder bodies free of per-lookup error plumbing; the
// expander checks Err after every builder call and aborts on the first
// latched failure.
type Instance struct {
	Index    *IndexRegistry
	Params   *ParameterStore
	Topology *Topology
	Plan     *CapacityPlan
	Costs    *Costs
	Options  model.Options

	vars   []model.Variable
	varIDs map[string]int

	// Builders run concurrently during expansion; the latch is the only
	// mutable state they share.
	mu  sync.Mutex
	err error
}

// NewInstance assembles an evaluation context over loaded inputs.
func NewInstance(index *IndexRegistry, params *ParameterStore, topo *Topology,
	plan *CapacityPlan, costs *Costs, opts model.Options) *Instance {
	return &Instance{
		Index:    index,
		Params:   params,
		Topology: topo,
		Plan:     plan,
		Costs:    costs,
		Options:  opts,
		varIDs:   make(map[string]int),
	}
}

// Param returns a parameter value, latching any lookup failure.
func (in *Instance) Param(name string, tuple ...string) float64 {
	v, err := in.Params.Lookup(name, tuple...)
	if err != nil {
		in.fail(err)
	}
	return v
}

// Err returns the first latched failure, if any.
func (in *Instance) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// fail latches an arbitrary error from a helper.
func (in *Instance) fail(err error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.err == nil {
		in.err = err
	}
}

// YearOf parses a YEAR identifier. Identifiers were validated at
// declaration time, so a parse failure here is latched as a schema
// error rather than returned.
func (in *Instance) YearOf(id string) int {
	y, err := strconv.Atoi(id)
	if err != nil {
		in.fail(fmt.Errorf("%w: %q is not a year", ErrSchema, id))
	}
	return y
}

// DiscountToStart wraps Costs.DiscountToStart with error latching.
func (in *Instance) DiscountToStart(region string, year int) float64 {
	f, err := in.Costs.DiscountToStart(region, year)
	if err != nil {
		in.fail(err)
	}
	return f
}

// DiscountMidInterval wraps Costs.DiscountMidInterval with error latching.
func (in *Instance) DiscountMidInterval(region string, year int) float64 {
	f, err := in.Costs.DiscountMidInterval(region, year)
	if err != nil {
		in.fail(err)
	}
	return f
}

// addVar appends a concrete variable and indexes its label.
func (in *Instance) addVar(v model.Variable) int {
	id := len(in.vars)
	in.vars = append(in.vars, v)
	in.varIDs[v.Label()] = id
	return id
}

// HasVar reports whether a concrete variable was materialized. Builders
// use this to skip terms whose variable family pruned the tuple.
func (in *Instance) HasVar(name string, tuple ...string) bool {
	_, ok := in.varIDs[model.Label(name, tuple)]
	return ok
}

// VarID resolves a concrete variable to its column id.
func (in *Instance) VarID(name string, tuple ...string) (int, error) {
	id, ok := in.varIDs[model.Label(name, tuple)]
	if !ok {
		return 0, fmt.Errorf("%w: variable %s", ErrUndefinedRef, model.Label(name, tuple))
	}
	return id, nil
}

// Variables returns the materialized variable table.
func (in *Instance) Variables() []model.Variable { return in.vars }
