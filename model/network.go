package model

// TransportLink is a directed, mode-specific edge between two locations.
// Bidirectional physical routes are represented as two directed links that
// by modeling convention share the same declared capacity; the assembler
// does not enforce that convention.
type TransportLink struct {
	From     string
	To       string
	Mode     string
	Implicit bool // derived by topology rules rather than declared
}

// Key is the canonical identity of a link within a topology.
func (l TransportLink) Key() string {
	return l.From + ">" + l.To + "@" + l.Mode
}
