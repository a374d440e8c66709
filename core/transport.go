package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridfoundry/capex-compiler/model"
)

// Parameters consumed when pairing transport flows with the plants
// allowed to carry them.
const (
	ParamHubLocation   = "HubLocation"
	ParamHubTechnology = "HubTechnology"
)

// Topology holds the transport links of a run: the implicit links the
// assembler derives from geography plus explicit overlays such as
// pipelines. A missing link means its flow variable is never created
// and no balance row ever mentions it. There is no slack route.
type Topology struct {
	index *IndexRegistry
	opts  model.Options

	links   map[string]model.TransportLink
	ordered []model.TransportLink

	inbound  map[string][]model.TransportLink
	outbound map[string][]model.TransportLink
}

// NewTopology creates an empty topology for the given registry.
func NewTopology(index *IndexRegistry, opts model.Options) *Topology {
	return &Topology{
		index:    index,
		opts:     opts,
		links:    make(map[string]model.TransportLink),
		inbound:  make(map[string][]model.TransportLink),
		outbound: make(map[string][]model.TransportLink),
	}
}

// HubLocationName returns the synthetic hub location of a region.
func (t *Topology) HubLocationName(region string) string {
	return t.opts.Reserved.HubPrefix + region
}

// IsHubLocation reports whether loc is a synthetic regional hub.
func (t *Topology) IsHubLocation(loc string) bool {
	return strings.HasPrefix(loc, t.opts.Reserved.HubPrefix)
}

// EnsureHubLocations injects one hub location per region into the
// LOCATION set and the geography. Call before the registry is handed to
// the parameter store so hub-indexed overrides validate. A no-op when
// hub routing is disabled.
func (t *Topology) EnsureHubLocations() error {
	if !t.opts.TransportHub {
		return nil
	}
	regions, err := t.index.Resolve(SetRegion)
	if err != nil {
		return err
	}
	for _, region := range regions {
		hub := t.HubLocationName(region)
		if err := t.index.AppendToSet(SetLocation, hub); err != nil {
			return err
		}
		if err := t.index.SetRegionOf(hub, region); err != nil {
			return err
		}
	}
	return nil
}

// AddLink records one explicit link, e.g. a pipeline segment. Endpoints
// must be declared locations and the mode a declared transport mode.
func (t *Topology) AddLink(from, to, mode string) error {
	if !t.index.Contains(SetLocation, from) {
		return fmt.Errorf("%w: link origin %q is not a location", ErrUndefinedRef, from)
	}
	if !t.index.Contains(SetLocation, to) {
		return fmt.Errorf("%w: link destination %q is not a location", ErrUndefinedRef, to)
	}
	if !t.index.Contains(SetTransportMode, mode) {
		return fmt.Errorf("%w: link mode %q is not a transport mode", ErrUndefinedRef, mode)
	}
	t.put(model.TransportLink{From: from, To: to, Mode: mode})
	return nil
}

func (t *Topology) put(l model.TransportLink) {
	if _, dup := t.links[l.Key()]; dup {
		return
	}
	t.links[l.Key()] = l
	t.ordered = nil
	t.outbound[l.From] = append(t.outbound[l.From], l)
	t.inbound[l.To] = append(t.inbound[l.To], l)
}

// Assemble derives the implicit links. Every location gets an ONSITE
// self-link. With hub routing on, each location exchanges with its
// regional hub over the general mode and hubs exchange pairwise over
// the inter-regional mode; with hub routing off, all distinct location
// pairs exchange directly over the general mode.
func (t *Topology) Assemble() error {
	locs, err := t.index.Resolve(SetLocation)
	if err != nil {
		return err
	}
	res := t.opts.Reserved

	for _, loc := range locs {
		t.put(model.TransportLink{From: loc, To: loc, Mode: res.OnsiteMode, Implicit: true})
	}

	if t.opts.TransportHub {
		for _, loc := range locs {
			if t.IsHubLocation(loc) {
				continue
			}
			region, ok := t.index.RegionOf(loc)
			if !ok {
				return fmt.Errorf("%w: location %q has no region", ErrSchema, loc)
			}
			hub := t.HubLocationName(region)
			t.put(model.TransportLink{From: loc, To: hub, Mode: res.OtherMode, Implicit: true})
			t.put(model.TransportLink{From: hub, To: loc, Mode: res.OtherMode, Implicit: true})
		}
		regions, err := t.index.Resolve(SetRegion)
		if err != nil {
			return err
		}
		for _, ra := range regions {
			for _, rb := range regions {
				if ra == rb {
					continue
				}
				t.put(model.TransportLink{
					From: t.HubLocationName(ra), To: t.HubLocationName(rb),
					Mode: res.InterRegionalMode, Implicit: true,
				})
			}
		}
	} else {
		for _, a := range locs {
			for _, b := range locs {
				if a == b {
					continue
				}
				t.put(model.TransportLink{From: a, To: b, Mode: res.OtherMode, Implicit: true})
			}
		}
	}

	return nil
}

// BindRoutes opens every assembled link for every product in every
// year by writing route entries into the parameter store. Implicit
// links also get an unbounded capacity unless one was loaded for them,
// so the topology alone never caps a flow. Explicit route tables, e.g.
// pipelines, are loaded separately and untouched.
func (t *Topology) BindRoutes(params *ParameterStore) error {
	products, err := t.index.Resolve(SetProduct)
	if err != nil {
		return err
	}
	years, err := t.index.Resolve(SetYear)
	if err != nil {
		return err
	}
	for _, l := range t.Links() {
		if !l.Implicit {
			continue
		}
		for _, p := range products {
			for _, y := range years {
				if err := params.Set(ParamTransportRoute, 1, l.From, l.To, p, l.Mode, y); err != nil {
					return err
				}
				if params.HasOverride(ParamTransportCapacity, l.From, l.To, p, l.Mode, y) {
					continue
				}
				if err := params.Set(ParamTransportCapacity, HighMax, l.From, l.To, p, l.Mode, y); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RouteExists reports whether a directed link exists on a mode.
func (t *Topology) RouteExists(from, to, mode string) bool {
	_, ok := t.links[model.TransportLink{From: from, To: to, Mode: mode}.Key()]
	return ok
}

// Links returns every link in deterministic key order.
func (t *Topology) Links() []model.TransportLink {
	if t.ordered == nil {
		keys := make([]string, 0, len(t.links))
		for k := range t.links {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t.ordered = make([]model.TransportLink, 0, len(keys))
		for _, k := range keys {
			t.ordered = append(t.ordered, t.links[k])
		}
	}
	return t.ordered
}

// Inbound returns the links terminating at a location, in the order
// they were added.
func (t *Topology) Inbound(loc string) []model.TransportLink { return t.inbound[loc] }

// Outbound returns the links originating at a location, in the order
// they were added.
func (t *Topology) Outbound(loc string) []model.TransportLink { return t.outbound[loc] }

// CrossRegion reports whether a link spans two regions, which is what
// makes its flow count as an import on the destination side and an
// export on the origin side.
func (t *Topology) CrossRegion(l model.TransportLink) bool {
	fr, _ := t.index.RegionOf(l.From)
	to, _ := t.index.RegionOf(l.To)
	return fr != "" && to != "" && fr != to
}
