// selector.go - the variant selector (VS): for one managed function,
// picks the best variant given the current state of the tracked
// variables it depends on.
package multiverse

import (
	"fmt"
	"unsafe"
)

// readVariable reads a tracked variable as an unsigned integer of its
// declared width. Widths other than 1, 2, or 4 bytes indicate a
// malformed descriptor; per the engine's error-handling design that is
// not recoverable, so this aborts the process rather than guessing.
func readVariable(v *TrackedVariable) uint32 {
	ptr := unsafe.Pointer(v.Address) //nolint:govet // address comes from a descriptor, not a Go value
	switch v.Width {
	case 1:
		return uint32(*(*uint8)(ptr))
	case 2:
		return uint32(*(*uint16)(ptr))
	case 4:
		return *(*uint32)(ptr)
	default:
		panic(fmt.Sprintf("multiverse: tracked variable %q has invalid width %d (must be 1, 2, or 4)", v.Name, v.Width))
	}
}

// selectVariant scans fn's variants in declaration order and returns
// the last one whose assignments all hold, or nil if none qualify.
// Later variants are expected to be more specialized than earlier
// ones, so a later qualifying variant intentionally overrides an
// earlier one (last match wins, §4.2).
func selectVariant(fn *ManagedFunction) *Variant {
	var best *Variant
	for _, v := range fn.Variants {
		if v.good() {
			best = v
		}
	}
	return best
}
