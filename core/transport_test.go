package core

import (
	"testing"

	"github.com/gridfoundry/capex-compiler/model"
)

func transportTestIndex(t *testing.T) *IndexRegistry {
	t.Helper()
	r := NewIndexRegistry()
	if err := r.DeclareSet(SetYear, []string{"2030"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetRegion, []string{"EU", "US"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetLocation, []string{"HAMBURG", "ROTTERDAM", "HOUSTON"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetTechnology, []string{"ELECTROLYSER"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetProduct, []string{"HYDROGEN"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetMode, []string{"M1"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetEmission, nil); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.DeclareSet(SetTransportMode, []string{"ONSITE", "OTHER", "INTER_REG", "PIPELINE"}); err != nil {
		t.Fatalf("DeclareSet: %v", err)
	}
	if err := r.BindGeography(map[string]string{
		"HAMBURG": "EU", "ROTTERDAM": "EU", "HOUSTON": "US",
	}); err != nil {
		t.Fatalf("BindGeography: %v", err)
	}
	return r
}

func TestAssembleDirectMesh(t *testing.T) {
	r := transportTestIndex(t)
	topo := NewTopology(r, model.DefaultOptions())
	if err := topo.Assemble(); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// Every location self-links over ONSITE.
	for _, loc := range []string{"HAMBURG", "ROTTERDAM", "HOUSTON"} {
		if !topo.RouteExists(loc, loc, "ONSITE") {
			t.Fatalf("missing ONSITE self-link at %s", loc)
		}
	}

	// All distinct ordered pairs exchange over OTHER: 3*2 links.
	if !topo.RouteExists("HAMBURG", "HOUSTON", "OTHER") {
		t.Fatalf("missing direct OTHER link HAMBURG->HOUSTON")
	}
	if !topo.RouteExists("HOUSTON", "HAMBURG", "OTHER") {
		t.Fatalf("missing direct OTHER link HOUSTON->HAMBURG")
	}
	if got := len(topo.Links()); got != 3+6 {
		t.Fatalf("link count = %d, want 9", got)
	}

	// Adjacency per location: the self-link plus one link per peer,
	// each way.
	if got := len(topo.Outbound("HAMBURG")); got != 3 {
		t.Fatalf("outbound degree = %d, want 3", got)
	}
	if got := len(topo.Inbound("HAMBURG")); got != 3 {
		t.Fatalf("inbound degree = %d, want 3", got)
	}
}

func TestAssembleHubRouting(t *testing.T) {
	r := transportTestIndex(t)
	opts := model.DefaultOptions()
	opts.TransportHub = true
	topo := NewTopology(r, opts)
	if err := topo.EnsureHubLocations(); err != nil {
		t.Fatalf("EnsureHubLocations: %v", err)
	}
	if err := topo.Assemble(); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	euHub := topo.HubLocationName("EU")
	usHub := topo.HubLocationName("US")

	if !r.Contains(SetLocation, euHub) {
		t.Fatalf("hub %s not injected into LOCATION", euHub)
	}
	if reg, _ := r.RegionOf(euHub); reg != "EU" {
		t.Fatalf("hub region = %q, want EU", reg)
	}

	// Plants reach only their own hub over OTHER.
	if !topo.RouteExists("HAMBURG", euHub, "OTHER") || !topo.RouteExists(euHub, "HAMBURG", "OTHER") {
		t.Fatalf("HAMBURG should exchange with its hub")
	}
	if topo.RouteExists("HAMBURG", "ROTTERDAM", "OTHER") {
		t.Fatalf("plant-to-plant OTHER link should not exist in hub mode")
	}
	if topo.RouteExists("HAMBURG", usHub, "OTHER") {
		t.Fatalf("plant should not reach a foreign hub")
	}

	// Hubs exchange pairwise over INTER_REG, and hubs self-link too.
	if !topo.RouteExists(euHub, usHub, "INTER_REG") || !topo.RouteExists(usHub, euHub, "INTER_REG") {
		t.Fatalf("hubs should exchange over INTER_REG")
	}
	if !topo.RouteExists(euHub, euHub, "ONSITE") {
		t.Fatalf("hub missing ONSITE self-link")
	}
}

func TestExplicitLinkValidation(t *testing.T) {
	r := transportTestIndex(t)
	topo := NewTopology(r, model.DefaultOptions())

	if err := topo.AddLink("HAMBURG", "ROTTERDAM", "PIPELINE"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if !topo.RouteExists("HAMBURG", "ROTTERDAM", "PIPELINE") {
		t.Fatalf("explicit pipeline link not recorded")
	}
	// A pipeline is directed; no reverse link appears.
	if topo.RouteExists("ROTTERDAM", "HAMBURG", "PIPELINE") {
		t.Fatalf("reverse pipeline link should not exist")
	}

	if err := topo.AddLink("ATLANTIS", "ROTTERDAM", "PIPELINE"); err == nil {
		t.Fatalf("expected unknown origin to be rejected")
	}
	if err := topo.AddLink("HAMBURG", "ROTTERDAM", "TELEPORT"); err == nil {
		t.Fatalf("expected unknown mode to be rejected")
	}
}

func TestBindRoutesOpensImplicitLinksOnly(t *testing.T) {
	r := transportTestIndex(t)
	topo := NewTopology(r, model.DefaultOptions())
	if err := topo.AddLink("HAMBURG", "ROTTERDAM", "PIPELINE"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if err := topo.Assemble(); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	s := NewParameterStore(r)
	if err := DeclareStandardParams(s); err != nil {
		t.Fatalf("DeclareStandardParams: %v", err)
	}
	// A capacity loaded before binding must survive it.
	if err := s.Set(ParamTransportCapacity, 50, "HAMBURG", "ROTTERDAM", "HYDROGEN", "OTHER", "2030"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := topo.BindRoutes(s); err != nil {
		t.Fatalf("BindRoutes: %v", err)
	}

	v, err := s.Lookup(ParamTransportRoute, "HAMBURG", "HAMBURG", "HYDROGEN", "ONSITE", "2030")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if v != 1 {
		t.Fatalf("implicit route not opened, got %v", v)
	}

	// Opening a route also lifts its capacity, so the topology alone
	// never caps a flow at the zero default.
	v, err = s.Lookup(ParamTransportCapacity, "HAMBURG", "HAMBURG", "HYDROGEN", "ONSITE", "2030")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !IsUnbounded(v) {
		t.Fatalf("implicit link capacity = %v, want unbounded", v)
	}
	v, err = s.Lookup(ParamTransportCapacity, "HAMBURG", "ROTTERDAM", "HYDROGEN", "OTHER", "2030")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if v != 50 {
		t.Fatalf("loaded capacity clobbered by binding, got %v", v)
	}

	// The explicit pipeline stays with whatever the route table says.
	v, err = s.Lookup(ParamTransportRoute, "HAMBURG", "ROTTERDAM", "HYDROGEN", "PIPELINE", "2030")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if v != 0 {
		t.Fatalf("explicit route should stay on its table default, got %v", v)
	}
	v, err = s.Lookup(ParamTransportCapacity, "HAMBURG", "ROTTERDAM", "HYDROGEN", "PIPELINE", "2030")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if v != 0 {
		t.Fatalf("explicit link capacity should stay on its table, got %v", v)
	}
}

func TestCrossRegion(t *testing.T) {
	r := transportTestIndex(t)
	topo := NewTopology(r, model.DefaultOptions())

	same := model.TransportLink{From: "HAMBURG", To: "ROTTERDAM", Mode: "OTHER"}
	cross := model.TransportLink{From: "HAMBURG", To: "HOUSTON", Mode: "OTHER"}
	if topo.CrossRegion(same) {
		t.Fatalf("intra-EU link flagged as cross-region")
	}
	if !topo.CrossRegion(cross) {
		t.Fatalf("EU-US link not flagged as cross-region")
	}
}
