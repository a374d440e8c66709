package model

// ReservedNames collects the identifiers the compiler recognizes
// structurally rather than as plain data. Keeping them in one struct makes
// the reserved-name contract auditable in one place instead of scattering
// string literals through topology code.
type ReservedNames struct {
	// OnsiteMode is the transport mode of the implicit self-link every
	// location receives.
	OnsiteMode string
	// OtherMode is the transport mode of implicit location-to-location
	// (or location-to-hub) links.
	OtherMode string
	// InterRegionalMode connects hub locations of different regions when
	// hub mode is on.
	InterRegionalMode string
	// HubPrefix prefixes the per-region hub location name, e.g.
	// "TRANSPORT_HUB_EU" for region "EU".
	HubPrefix string
	// HubTechnologyMarker: under hub routing, technologies whose name
	// contains this marker are treated as hub-dispatch technologies in
	// addition to those declared via the HubTechnology parameter.
	HubTechnologyMarker string
}

// DefaultReservedNames returns the reserved identifiers of the standard
// equation catalog.
func DefaultReservedNames() ReservedNames {
	return ReservedNames{
		OnsiteMode:          "ONSITE",
		OtherMode:           "OTHER",
		InterRegionalMode:   "INTER_REG",
		HubPrefix:           "TRANSPORT_HUB_",
		HubTechnologyMarker: "HUB",
	}
}

// Options selects which parts of the equation catalog are instantiated.
type Options struct {
	// TransportHub routes implicit OTHER links through a per-region hub
	// location instead of a full direct mesh.
	TransportHub bool
	// Retrofit enables the retrofit eligibility/allocation constraint
	// group.
	Retrofit bool
	// IncludeSalvageValue adds the salvage credit to the objective. Off by
	// default: the documented salvage term is known to degenerate total
	// discounted cost in some datasets and is pending an economics review.
	IncludeSalvageValue bool

	Reserved ReservedNames
}

// DefaultOptions returns the catalog configuration used when a scenario
// declares nothing: direct mesh, no retrofit, salvage excluded.
func DefaultOptions() Options {
	return Options{Reserved: DefaultReservedNames()}
}
