// patch.go - wiring for the architecture back end. archApply and
// archRevert are defined once per GOARCH (patch_amd64.go,
// patch_arm64.go, patch_fallback.go); patchApply/patchRevert are
// package variables rather than direct calls so tests can swap in a
// recording fake, the same override-before-fallback shape the
// teacher's instruction writer uses for pluggable backends (see
// jmp.go's `if o.backend != nil { ...; return }`).
package multiverse

var (
	patchApply  = archApply
	patchRevert = archRevert
)
