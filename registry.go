// registry.go - the process-wide descriptor registry. This is the
// narrow surface an external bootstrap pass (out of scope, see doc.go)
// uses to hand the engine its compile-unit descriptor blocks; the
// engine itself only ever reads from it, except for the bound and
// active-variant fields mutated by Bind and the commit driver.
package multiverse

import "sync"

// Registry holds every ManagedFunction and TrackedVariable known to
// one engine, grouped into the compile units they were registered in.
// A full-program commit traverses units, and functions within a unit,
// in registration order — mirroring the original's traversal of its
// singly-linked list of descriptor blocks.
type Registry struct {
	mu        sync.Mutex
	units     [][]*ManagedFunction
	variables []*TrackedVariable
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterUnit adds one compile unit's worth of managed functions.
// Functions within fns keep their slice order for every subsequent
// full-program commit.
func (r *Registry) RegisterUnit(fns []*ManagedFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = append(r.units, fns)
}

// RegisterVariable adds a tracked variable to the registry.
func (r *Registry) RegisterVariable(v *TrackedVariable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables = append(r.variables, v)
}

// LookupFunction returns the managed function whose body contains
// addr, the out-of-scope info_fn collaborator.
func (r *Registry) LookupFunction(addr uintptr) (*ManagedFunction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, unit := range r.units {
		for _, fn := range unit {
			if fn.contains(addr) {
				return fn, true
			}
		}
	}
	return nil, false
}

// LookupVariable returns the tracked variable registered at addr, the
// out-of-scope info_var collaborator.
func (r *Registry) LookupVariable(addr uintptr) (*TrackedVariable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.variables {
		if v.Address == addr {
			return v, true
		}
	}
	return nil, false
}

// allFunctions flattens every registered unit, preserving
// unit-then-declaration order.
func (r *Registry) allFunctions() []*ManagedFunction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ManagedFunction
	for _, unit := range r.units {
		out = append(out, unit...)
	}
	return out
}

// functionsReferencing returns every managed function with at least
// one variant guarded by v, in unit-then-declaration order.
func (r *Registry) functionsReferencing(v *TrackedVariable) []*ManagedFunction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ManagedFunction
	for _, unit := range r.units {
		for _, fn := range unit {
			if fn.references(v) {
				out = append(out, fn)
			}
		}
	}
	return out
}
