// types.go - the descriptor data model: tracked variables, variants,
// patch points, and managed functions. Populated once by an external
// bootstrap step (out of scope, see doc.go) and mutated afterwards
// only through Bind and the commit/revert entry points.
package multiverse

// BoundState is a tracked variable's binding epoch. Zero means
// unbound; any positive value the caller chose means the variable's
// current in-memory value is authoritative for variant selection.
type BoundState int

const unbound BoundState = 0

// ValueRange is a closed, unsigned interval [Lower, Upper] attached to
// an Assignment. Values read from the variable are compared unsigned
// against it.
type ValueRange struct {
	Lower uint32
	Upper uint32
}

// Contains reports whether v falls inside the range, inclusive.
func (r ValueRange) Contains(v uint32) bool {
	return v >= r.Lower && v <= r.Upper
}

// TrackedVariable is a program variable whose current value gates
// variant selection.
type TrackedVariable struct {
	// Name is diagnostic only; the engine never looks variables up by it.
	Name string

	// Address is where the variable lives in the process's own memory.
	Address uintptr

	// Width is the variable's size in bytes. Only 1, 2, or 4 are legal;
	// anything else is a fatal descriptor error (§7 of the design doc).
	Width int

	// Tracked marks that the descriptor producer allows this variable
	// to be bound. Bind fails against a variable with Tracked == false.
	Tracked bool

	bound BoundState
}

// Assignment is the predicate "Variable currently lies in Range".
type Assignment struct {
	Variable *TrackedVariable
	Range    ValueRange
}

// Variant is one specialized, precompiled body of a managed function,
// guarded by a conjunction of Assignments. Immutable after load.
type Variant struct {
	// Name is diagnostic only.
	Name string

	// Entry is the address of the variant's compiled body: the target
	// a patch point is rewritten to call when this variant is active.
	Entry uintptr

	Assignments []Assignment
}

// good reports whether every one of the variant's assignments holds,
// given the current state of its referenced tracked variables (§4.2,
// the variant selector's per-variant check).
func (v *Variant) good() bool {
	for _, a := range v.Assignments {
		if a.Variable.bound == unbound {
			return false
		}
		if !a.Range.Contains(readVariable(a.Variable)) {
			return false
		}
	}
	return true
}

// PatchKind distinguishes a real call-site patch point from a slot the
// producer left empty (PatchInvalid), which the rewriter always skips.
type PatchKind int

const (
	PatchInvalid PatchKind = iota
	PatchDirect
)

// PatchPoint is a single call-site location in caller code that the
// rewriter can aim at a specific variant, or back at the generic body.
// A patch point occupies at most two consecutive pages: it is treated
// as a byte at Location and a byte at Location+5, the maximum patch
// width on either supported architecture.
type PatchPoint struct {
	Kind PatchKind

	// Location is the address of the patch-site instruction. Zero
	// means absent (nothing to rewrite even if Kind != PatchInvalid).
	Location uintptr

	// GenericTarget is where control resumes when this patch point is
	// reverted to its generic/slow-path form. Opaque to the selector;
	// meaningful only to the architecture back end.
	GenericTarget uintptr
}

// ManagedFunction is a function body with its known variants, the
// patch points that currently target it, and its active variant (nil
// meaning generic/reverted).
type ManagedFunction struct {
	// Name is diagnostic only.
	Name string

	// Start and End bound the function body so LookupFunction can
	// resolve any interior pointer, not just the entry address.
	Start, End uintptr

	Variants    []*Variant
	PatchPoints []*PatchPoint

	active *Variant
}

// ActiveVariant returns the function's currently installed variant, or
// nil if the function is reverted / running its generic body.
func (f *ManagedFunction) ActiveVariant() *Variant {
	return f.active
}

// contains reports whether addr falls inside the function's body.
func (f *ManagedFunction) contains(addr uintptr) bool {
	return addr >= f.Start && addr < f.End
}

// references reports whether any variant of f is guarded by v.
func (f *ManagedFunction) references(v *TrackedVariable) bool {
	for _, variant := range f.Variants {
		for _, a := range variant.Assignments {
			if a.Variable == v {
				return true
			}
		}
	}
	return false
}
