//go:build arm64

// patch_arm64.go - the arm64 architecture back end, mirroring
// call.go's callARM64Relative (BL, opcode family 0x94000000, signed
// 26-bit word-granular immediate). BL is only 4 bytes; the engine
// still unprotects Location and Location+5 for every patch point, so
// its two-page unprotect math is unchanged, and this back end never
// writes past the fourth byte.
package multiverse

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

const (
	blOpcode    = 0x94000000
	blImmMask   = 0x03FFFFFF
	blImmMin    = -33554432
	blImmMax    = 33554431
)

func archApply(location, target uintptr) error {
	return writeBL(location, target)
}

func archRevert(location, target uintptr) error {
	return writeBL(location, target)
}

func writeBL(location, target uintptr) error {
	rel := int64(target) - int64(location)
	if rel%4 != 0 {
		return fmt.Errorf("multiverse: target %#x is not 4-byte aligned relative to patch point %#x", target, location)
	}
	imm := rel / 4
	if imm < blImmMin || imm > blImmMax {
		return fmt.Errorf("multiverse: target %#x is out of BL's 26-bit range of patch point %#x", target, location)
	}

	instr := uint32(blOpcode) | (uint32(imm) & blImmMask)
	dst := unsafe.Slice((*byte)(unsafe.Pointer(location)), 4) //nolint:govet // rewriting a live patch point by design
	binary.LittleEndian.PutUint32(dst, instr)
	return nil
}
