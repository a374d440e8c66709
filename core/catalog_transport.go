package core

import "github.com/gridfoundry/capex-compiler/model"

// transportTemplates covers the transport flow group: per-link capacity
// rows (single-purpose and pooled multi-purpose), conservation between
// flows and local production/use, and the regional import/export
// derivation. A location without any route on a product simply gets no
// conservation row for it.
func transportTemplates() []ConstraintTemplate {
	return []ConstraintTemplate{
		{
			Name: "TF1a_Transport_1a",
			Sets: []string{SetLocation, SetLocation, SetProduct, SetTransportMode, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, ll, p, tr, y := tuple[0], tuple[1], tuple[2], tuple[3], tuple[4]
				if in.Param(ParamMultiPurposeTransport, tr) == 1 {
					return nil, nil
				}
				cap := in.Param(ParamTransportCapacity, l, ll, p, tr, y)
				if IsUnbounded(cap) {
					return nil, nil
				}
				forward := routed(in, l, ll, p, tr, y)
				backward := routed(in, ll, l, p, tr, y)
				if !forward {
					return nil, nil
				}
				toActivity := in.Param(ParamTransportCapacityToActivity, tr)
				terms := []Term{{Var: VarTransport, Tuple: []string{l, ll, p, tr, y}, Coef: 1}}
				if backward {
					// Bi-directional links share one physical capacity.
					terms = append(terms, Term{Var: VarTransport, Tuple: []string{ll, l, p, tr, y}, Coef: 1})
				}
				return &RowSpec{Terms: terms, Rel: model.RelLe, RHS: cap * toActivity}, nil
			},
		},
		{
			Name: "TF1b_Transport_1b",
			Sets: []string{SetLocation, SetLocation, SetTransportMode, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, ll, tr, y := tuple[0], tuple[1], tuple[2], tuple[3]
				if in.Param(ParamMultiPurposeTransport, tr) != 1 {
					return nil, nil
				}
				products, err := in.Index.Resolve(SetProduct)
				if err != nil {
					return nil, err
				}
				var outbound, inbound []string
				for _, p := range products {
					if routed(in, l, ll, p, tr, y) {
						outbound = append(outbound, p)
					}
					if routed(in, ll, l, p, tr, y) {
						inbound = append(inbound, p)
					}
				}
				if len(outbound) == 0 {
					return nil, nil
				}
				// The same pooled capacity is entered once per routed
				// product, so average it back out.
				capSum := 0.0
				for _, p := range outbound {
					capSum += in.Param(ParamTransportCapacity, l, ll, p, tr, y)
				}
				if IsUnbounded(capSum / float64(len(outbound))) {
					return nil, nil
				}
				toActivity := in.Param(ParamTransportCapacityToActivity, tr)
				var terms []Term
				for _, p := range outbound {
					terms = append(terms, Term{Var: VarTransport, Tuple: []string{l, ll, p, tr, y}, Coef: 1})
				}
				for _, p := range inbound {
					terms = append(terms, Term{Var: VarTransport, Tuple: []string{ll, l, p, tr, y}, Coef: 1})
				}
				rhs := capSum / float64(len(outbound)) * toActivity
				return &RowSpec{Terms: terms, Rel: model.RelLe, RHS: rhs}, nil
			},
		},
		{
			Name: "TF2_Transport_2",
			Sets: []string{SetLocation, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, y := tuple[0], tuple[1], tuple[2]
				flows, err := outboundFlowTerms(in, l, p, y, 1)
				if err != nil || len(flows) == 0 {
					return nil, err
				}
				terms := append(flows, Term{Var: VarLocalProduction, Tuple: []string{l, p, y}, Coef: -1})
				rel := model.RelLe
				if isHubLocation(in, l) {
					// Hubs hold no stock: everything arriving leaves.
					rel = model.RelEq
				}
				return &RowSpec{Terms: terms, Rel: rel}, nil
			},
		},
		{
			Name: "TF3_Transport_3",
			Sets: []string{SetLocation, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				l, p, y := tuple[0], tuple[1], tuple[2]
				flows, err := inboundFlowTerms(in, l, p, y, 1)
				if err != nil || len(flows) == 0 {
					return nil, err
				}
				terms := append(flows, Term{Var: VarLocalUse, Tuple: []string{l, p, y}, Coef: -1})
				return &RowSpec{Terms: terms, Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TF4_Imports",
			Sets: []string{SetRegion, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, p, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarImport, Tuple: []string{r, p, y}, Coef: 1}}
				cross, err := crossRegionFlowTerms(in, r, p, y, true)
				if err != nil {
					return nil, err
				}
				return &RowSpec{Terms: append(terms, cross...), Rel: model.RelEq}, nil
			},
		},
		{
			Name: "TF5_Exports",
			Sets: []string{SetRegion, SetProduct, SetYear},
			Build: func(in *Instance, tuple []string) (*RowSpec, error) {
				r, p, y := tuple[0], tuple[1], tuple[2]
				terms := []Term{{Var: VarExport, Tuple: []string{r, p, y}, Coef: 1}}
				cross, err := crossRegionFlowTerms(in, r, p, y, false)
				if err != nil {
					return nil, err
				}
				return &RowSpec{Terms: append(terms, cross...), Rel: model.RelEq}, nil
			},
		},
	}
}

// outboundFlowTerms collects coefficient terms for every routed flow
// leaving loc carrying product in year.
func outboundFlowTerms(in *Instance, loc, product, year string, coef float64) ([]Term, error) {
	var terms []Term
	for _, l := range in.Topology.Outbound(loc) {
		if routed(in, l.From, l.To, product, l.Mode, year) {
			terms = append(terms, Term{Var: VarTransport, Tuple: []string{l.From, l.To, product, l.Mode, year}, Coef: coef})
		}
	}
	return terms, nil
}

// inboundFlowTerms collects coefficient terms for every routed flow
// arriving at loc carrying product in year.
func inboundFlowTerms(in *Instance, loc, product, year string, coef float64) ([]Term, error) {
	var terms []Term
	for _, l := range in.Topology.Inbound(loc) {
		if routed(in, l.From, l.To, product, l.Mode, year) {
			terms = append(terms, Term{Var: VarTransport, Tuple: []string{l.From, l.To, product, l.Mode, year}, Coef: coef})
		}
	}
	return terms, nil
}

// crossRegionFlowTerms collects, with coefficient -1, the routed flows
// crossing the border of region: arriving from outside when imports is
// true, leaving for outside otherwise.
func crossRegionFlowTerms(in *Instance, region, product, year string, imports bool) ([]Term, error) {
	var terms []Term
	for _, inside := range in.Index.LocationsInRegion(region) {
		links := in.Topology.Outbound(inside)
		if imports {
			links = in.Topology.Inbound(inside)
		}
		for _, l := range links {
			if !in.Topology.CrossRegion(l) {
				continue
			}
			if routed(in, l.From, l.To, product, l.Mode, year) {
				terms = append(terms, Term{Var: VarTransport, Tuple: []string{l.From, l.To, product, l.Mode, year}, Coef: -1})
			}
		}
	}
	return terms, nil
}
