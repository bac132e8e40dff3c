// errors.go - sentinel errors returned by the commit engine
package multiverse

import "errors"

var (
	// ErrNotManaged is returned when an address does not fall inside
	// any registered ManagedFunction.
	ErrNotManaged = errors.New("multiverse: address is not a managed function")

	// ErrNotTracked is returned by Bind when the variable at the given
	// address was never declared tracked by the descriptor producer.
	ErrNotTracked = errors.New("multiverse: variable is not declared tracked")

	// ErrNotTrackedVar is returned when an address does not fall on any
	// registered TrackedVariable.
	ErrNotTrackedVar = errors.New("multiverse: address is not a tracked variable")

	// ErrAllocation is returned when a batch context could not be
	// opened (e.g. the page cache could not obtain an mprotect back end).
	ErrAllocation = errors.New("multiverse: failed to open commit context")

	// ErrUnsupportedArch is returned by a patch-point back end that has
	// no fixed-width, PC-relative encoding for the running GOARCH.
	ErrUnsupportedArch = errors.New("multiverse: architecture has no patch-point encoding")

	// ErrUnsupportedPlatform is returned when the host OS offers no
	// mprotect-equivalent primitive this package knows how to drive.
	ErrUnsupportedPlatform = errors.New("multiverse: platform has no supported page-protection primitive")
)
