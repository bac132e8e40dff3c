//go:build amd64

// patch_amd64.go - the amd64 architecture back end. Both apply and
// revert write a fixed-width, 5-byte relative control-transfer
// instruction, mirroring call.go's callX86Relative (opcode 0xE8,
// CALL rel32) and the equivalent JMP rel32 (opcode 0xE9) used
// elsewhere in the teacher's instruction set.
package multiverse

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// archApply rewrites the patch point at location as a direct CALL to
// target, the chosen variant's entry point.
func archApply(location, target uintptr) error {
	return writeRel32(location, target, 0xE8)
}

// archRevert rewrites the patch point at location as a direct JMP to
// target, the function's recorded generic/slow-path body. Writing a
// JMP rather than re-emitting the original bytes keeps the revert path
// exactly as wide as apply, so the engine never needs to unprotect a
// third byte.
func archRevert(location, target uintptr) error {
	return writeRel32(location, target, 0xE9)
}

func writeRel32(location, target uintptr, opcode byte) error {
	rel := int64(target) - int64(location) - 5
	if rel > math.MaxInt32 || rel < math.MinInt32 {
		return fmt.Errorf("multiverse: target %#x is out of CALL/JMP rel32 range of patch point %#x", target, location)
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(location)), 5) //nolint:govet // rewriting a live patch point by design
	dst[0] = opcode
	binary.LittleEndian.PutUint32(dst[1:], uint32(int32(rel)))
	return nil
}
