package multiverse

import "unsafe"

// sliceAddr returns the address of buf's backing array, for tests that
// hand-roll a patch point inside an ordinary byte slice instead of
// live executable memory.
func sliceAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}
