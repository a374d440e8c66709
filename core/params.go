package core

import (
	"fmt"
	"sort"
	"strings"
)

// HighMax is the sentinel value that marks a capacity or activity bound
// as effectively unbounded. Constraint builders consult IsUnbounded and
// skip emitting the row entirely rather than writing a slack bound.
const HighMax = 1e20

// IsUnbounded reports whether v is the "no limit" sentinel.
func IsUnbounded(v float64) bool { return v >= HighMax }

// tupleKey joins index identifiers into a map key. Identifiers never
// contain '|' in practice; loaders reject ones that do.
func tupleKey(tuple []string) string { return strings.Join(tuple, "|") }

type paramDef struct {
	name     string
	sets     []string
	fallback float64
	values   map[string]float64
}

// ParameterStore holds the dense defaults and sparse overrides of every
// declared parameter. Lookups on an undeclared tuple position fall back
// to the parameter's default; lookups with the wrong arity are schema
// errors surfaced through the Instance accessors.
type ParameterStore struct {
	index  *IndexRegistry
	params map[string]*paramDef
}

// NewParameterStore creates a store validating against the given registry.
func NewParameterStore(index *IndexRegistry) *ParameterStore {
	return &ParameterStore{index: index, params: make(map[string]*paramDef)}
}

// Declare registers a parameter by name with its index sets and default
// value. Redeclaration is a schema error.
func (s *ParameterStore) Declare(name string, fallback float64, sets ...string) error {
	if name == "" {
		return fmt.Errorf("%w: empty parameter name", ErrSchema)
	}
	if _, exists := s.params[name]; exists {
		return fmt.Errorf("%w: parameter %q already declared", ErrSchema, name)
	}
	for _, set := range sets {
		if _, err := s.index.Resolve(set); err != nil {
			return fmt.Errorf("%w: parameter %q indexed over undeclared set %q", ErrSchema, name, set)
		}
	}
	s.params[name] = &paramDef{
		name:     name,
		sets:     append([]string(nil), sets...),
		fallback: fallback,
		values:   make(map[string]float64),
	}
	return nil
}

// Declared reports whether a parameter with this name exists.
func (s *ParameterStore) Declared(name string) bool {
	_, ok := s.params[name]
	return ok
}

// Set records one value at a tuple position. The tuple arity must match
// the declaration, and every identifier must be a member of the set at
// its position; an unknown identifier is an undefined reference.
func (s *ParameterStore) Set(name string, value float64, tuple ...string) error {
	def, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: parameter %q not declared", ErrUndefinedRef, name)
	}
	if len(tuple) != len(def.sets) {
		return fmt.Errorf("%w: parameter %q expects %d indices, got %d",
			ErrSchema, name, len(def.sets), len(tuple))
	}
	for i, id := range tuple {
		if !s.index.Contains(def.sets[i], id) {
			return fmt.Errorf("%w: parameter %q index %d: %q is not in set %s",
				ErrUndefinedRef, name, i, id, def.sets[i])
		}
	}
	def.values[tupleKey(tuple)] = value
	return nil
}

// HasOverride reports whether an explicit value was set at a tuple
// position. Arity mismatches report false.
func (s *ParameterStore) HasOverride(name string, tuple ...string) bool {
	def, ok := s.params[name]
	if !ok || len(tuple) != len(def.sets) {
		return false
	}
	_, ok = def.values[tupleKey(tuple)]
	return ok
}

// Lookup returns the value at a tuple position, falling back to the
// parameter default when no override was set.
func (s *ParameterStore) Lookup(name string, tuple ...string) (float64, error) {
	def, ok := s.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q not declared", ErrUndefinedRef, name)
	}
	if len(tuple) != len(def.sets) {
		return 0, fmt.Errorf("%w: parameter %q expects %d indices, got %d",
			ErrSchema, name, len(def.sets), len(tuple))
	}
	if v, ok := def.values[tupleKey(tuple)]; ok {
		return v, nil
	}
	return def.fallback, nil
}

// Default returns the declared fallback value of a parameter.
func (s *ParameterStore) Default(name string) (float64, error) {
	def, ok := s.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: parameter %q not declared", ErrUndefinedRef, name)
	}
	return def.fallback, nil
}

// Sets returns the index sets a parameter is declared over.
func (s *ParameterStore) Sets(name string) ([]string, error) {
	def, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: parameter %q not declared", ErrUndefinedRef, name)
	}
	return def.sets, nil
}

// ForEach visits the sparse overrides of a parameter in deterministic
// key order. The visit callback gets the split tuple and the value.
func (s *ParameterStore) ForEach(name string, visit func(tuple []string, value float64)) error {
	def, ok := s.params[name]
	if !ok {
		return fmt.Errorf("%w: parameter %q not declared", ErrUndefinedRef, name)
	}
	keys := make([]string, 0, len(def.values))
	for k := range def.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var tuple []string
		if k != "" {
			tuple = strings.Split(k, "|")
		}
		visit(tuple, def.values[k])
	}
	return nil
}
