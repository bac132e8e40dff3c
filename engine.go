// engine.go - the commit driver (CD): orchestrates a commit or revert
// over one function, every function referencing one variable, or the
// whole registry, owning the page cache's lifecycle for the batch.
package multiverse

import "sync"

// Config configures an Engine. The zero value is a usable
// configuration: a default page-cache capacity.
type Config struct {
	// Capacity overrides the page cache's LRU size. Zero means
	// defaultPageCacheCapacity (10, per §4.1).
	Capacity int
}

// Engine is one commit engine instance: a registry of managed
// functions and tracked variables, plus the single process-wide lock
// every driver call takes (§5 — this package assumes a stop-the-world
// caller; the lock only prevents two goroutines inside this process
// from patching concurrently, it does not suspend other threads).
type Engine struct {
	mu       sync.Mutex
	reg      *Registry
	capacity int
}

// NewEngine returns an Engine over reg. Most programs want a single
// Engine for the process's lifetime; tests construct their own so
// cases don't share state.
func NewEngine(reg *Registry, cfg Config) *Engine {
	return &Engine{reg: reg, capacity: cfg.Capacity}
}

// Registry returns the engine's registry, so an external bootstrap
// pass can populate it.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// commitOne is the patch-site rewriter (PSR): applies or reverts the
// patch points of fn to reach target (nil meaning revert to generic).
// A no-op if target is already fn's active variant.
func (e *Engine) commitOne(cache *pageCache, fn *ManagedFunction, target *Variant) (int, error) {
	if target == fn.active {
		return 0, nil
	}

	for _, pp := range fn.PatchPoints {
		if pp.Kind == PatchInvalid || pp.Location == 0 {
			continue
		}

		cache.unprotect(pp.Location)
		cache.unprotect(pp.Location + 5)

		var err error
		if target == nil {
			err = patchRevert(pp.Location, pp.GenericTarget)
		} else {
			err = patchApply(pp.Location, target.Entry)
		}
		if err != nil {
			return 0, err
		}
	}

	fn.active = target
	return 1, nil
}

// batch runs commitOne for each of fns, opening one page cache context
// for the whole call and closing it on every return path (including
// the error path, per §4.4's error-propagation contract). revert
// chooses each function's target: true always targets nil (revert),
// false lets the variant selector pick the best candidate.
func (e *Engine) batch(fns []*ManagedFunction, revert bool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cache, err := openPageCache(e.capacity)
	if err != nil {
		return -1, err
	}
	defer cache.close()

	total := 0
	for _, fn := range fns {
		var target *Variant
		if !revert {
			target = selectVariant(fn)
		}
		n, err := e.commitOne(cache, fn, target)
		if err != nil {
			// The source leaves already-patched functions committed on a
			// mid-batch failure (FIXME in the original); this preserves
			// that behavior rather than inventing a rollback journal.
			return -1, err
		}
		total += n
	}
	return total, nil
}

// CommitFunction evaluates fn's variants against current tracked-
// variable state and installs the best one (commit_info_fn).
func (e *Engine) CommitFunction(fn *ManagedFunction) (int, error) {
	if fn == nil {
		return -1, ErrNotManaged
	}
	return e.batch([]*ManagedFunction{fn}, false)
}

// CommitFunctionAt looks fn up by an address inside its body, then
// commits it (commit_fn).
func (e *Engine) CommitFunctionAt(addr uintptr) (int, error) {
	fn, ok := e.reg.LookupFunction(addr)
	if !ok {
		return -1, ErrNotManaged
	}
	return e.CommitFunction(fn)
}

// CommitReferences commits every function with a variant guarded by v
// (commit_info_refs).
func (e *Engine) CommitReferences(v *TrackedVariable) (int, error) {
	if v == nil {
		return -1, ErrNotTrackedVar
	}
	return e.batch(e.reg.functionsReferencing(v), false)
}

// CommitReferencesAt looks v up by address, then commits its
// referencing functions (commit_refs).
func (e *Engine) CommitReferencesAt(addr uintptr) (int, error) {
	v, ok := e.reg.LookupVariable(addr)
	if !ok {
		return -1, ErrNotTrackedVar
	}
	return e.CommitReferences(v)
}

// CommitAll commits every managed function in the registry, in
// unit-then-declaration order (commit).
func (e *Engine) CommitAll() (int, error) {
	return e.batch(e.reg.allFunctions(), false)
}

// RevertFunction forces fn's active variant to none (revert_info_fn).
func (e *Engine) RevertFunction(fn *ManagedFunction) (int, error) {
	if fn == nil {
		return -1, ErrNotManaged
	}
	return e.batch([]*ManagedFunction{fn}, true)
}

// RevertFunctionAt looks fn up by address, then reverts it (revert_fn).
func (e *Engine) RevertFunctionAt(addr uintptr) (int, error) {
	fn, ok := e.reg.LookupFunction(addr)
	if !ok {
		return -1, ErrNotManaged
	}
	return e.RevertFunction(fn)
}

// RevertReferences reverts every function with a variant guarded by v
// (revert_info_refs).
func (e *Engine) RevertReferences(v *TrackedVariable) (int, error) {
	if v == nil {
		return -1, ErrNotTrackedVar
	}
	return e.batch(e.reg.functionsReferencing(v), true)
}

// RevertReferencesAt looks v up by address, then reverts its
// referencing functions (revert_refs).
func (e *Engine) RevertReferencesAt(addr uintptr) (int, error) {
	v, ok := e.reg.LookupVariable(addr)
	if !ok {
		return -1, ErrNotTrackedVar
	}
	return e.RevertReferences(v)
}

// RevertAll reverts every managed function in the registry (revert).
func (e *Engine) RevertAll() (int, error) {
	return e.batch(e.reg.allFunctions(), true)
}

// IsCommitted reports whether fn currently has an active variant.
func (e *Engine) IsCommitted(fn *ManagedFunction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn.active != nil
}

// IsCommittedAt looks fn up by address, then reports its commit state.
func (e *Engine) IsCommittedAt(addr uintptr) (bool, error) {
	fn, ok := e.reg.LookupFunction(addr)
	if !ok {
		return false, ErrNotManaged
	}
	return e.IsCommitted(fn), nil
}

// Bind sets v's bound state when state >= 0 (failing if v was never
// declared tracked), and returns the resulting bound value, or -1 with
// an error on failure.
// Bind alone never re-commits; callers that want the new binding to
// take effect must call a commit operation afterwards.
func (e *Engine) Bind(v *TrackedVariable, state int) (int, error) {
	if v == nil {
		return -1, ErrNotTrackedVar
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if state >= 0 {
		if !v.Tracked {
			return -1, ErrNotTracked
		}
		v.bound = BoundState(state)
	}
	return int(v.bound), nil
}

// BindAt looks v up by address, then binds it.
func (e *Engine) BindAt(addr uintptr, state int) (int, error) {
	v, ok := e.reg.LookupVariable(addr)
	if !ok {
		return -1, ErrNotTrackedVar
	}
	return e.Bind(v, state)
}
