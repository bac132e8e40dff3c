//go:build unix

// mprotect_unix.go - the real Mprotector, backed by
// golang.org/x/sys/unix the same way filewatcher_unix.go drives
// inotify: a thin, already-imported wrapper over the raw syscall
// instead of hand-rolled syscall.Syscall plumbing.
package multiverse

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

type unixMprotector struct{}

func newPlatformMprotector() (Mprotector, error) {
	return unixMprotector{}, nil
}

func platformPageSize() int {
	return unix.Getpagesize()
}

func (unixMprotector) Unprotect(page uintptr, size int) error {
	return unixMprotect(page, size, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC)
}

func (unixMprotector) Protect(page uintptr, size int) error {
	return unixMprotect(page, size, unix.PROT_READ|unix.PROT_EXEC)
}

func unixMprotect(page uintptr, size int, prot int) error {
	b := unsafe.Slice((*byte)(unsafe.Pointer(page)), size)
	return unix.Mprotect(b, prot)
}
