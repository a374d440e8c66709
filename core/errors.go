package core

import (
	"errors"
	"fmt"
)

// Error taxonomy of the compilation pipeline. All three are fatal: schema
// problems abort before instantiation, undefined references abort
// instantiation, and compilation errors abort before any solver call.
// Valid-but-suspicious data (clamped retrofit potential, unreachable
// locations) is resolved by documented default policy and is not an error.
var (
	// ErrSchema marks a malformed or missing set/parameter declaration:
	// undeclared sets, duplicate identifiers, arity mismatches.
	ErrSchema = errors.New("schema error")

	// ErrUndefinedRef marks a template or data point referencing an index
	// tuple outside its declared domain.
	ErrUndefinedRef = errors.New("undefined reference")

	// ErrCompile marks a structurally broken compiled problem: a dangling
	// variable reference or an objective touching no variables.
	ErrCompile = errors.New("compilation error")
)

func errNoRegion(loc string) error {
	return fmt.Errorf("%w: location %q has no region", ErrSchema, loc)
}
