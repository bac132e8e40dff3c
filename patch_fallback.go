//go:build !amd64 && !arm64

// patch_fallback.go - architectures with no fixed-width, PC-relative
// call encoding wired up yet. riscv64's AUIPC+JALR pair needs a
// scratch register the patch site doesn't own to stay PC-relative
// without a literal pool, so it stops here rather than faking support
// (see SPEC_FULL.md §4.3 and DESIGN.md's open question).
package multiverse

func archApply(location, target uintptr) error {
	return ErrUnsupportedArch
}

func archRevert(location, target uintptr) error {
	return ErrUnsupportedArch
}
