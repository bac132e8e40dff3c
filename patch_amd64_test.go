//go:build amd64

package multiverse

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

// TestWriteRel32ProducesDecodableCallAndJmp writes a patch point into a
// plain byte slice (not live memory) and disassembles it with
// golang.org/x/arch/x86/x86asm to confirm archApply/archRevert emit
// exactly the 5-byte rel32 encodings documented in call.go/jmp.go.
func TestWriteRel32ProducesDecodableCallAndJmp(t *testing.T) {
	buf := make([]byte, 16)
	location := sliceAddr(buf)
	target := location + 64

	if err := archApply(location, target); err != nil {
		t.Fatalf("archApply: %v", err)
	}
	inst, err := x86asm.Decode(buf[:5], 64)
	if err != nil {
		t.Fatalf("x86asm.Decode(CALL): %v", err)
	}
	if inst.Op != x86asm.CALL {
		t.Fatalf("decoded op = %v, want CALL", inst.Op)
	}
	if inst.Len != 5 {
		t.Fatalf("decoded length = %d, want 5", inst.Len)
	}

	if err := archRevert(location, target); err != nil {
		t.Fatalf("archRevert: %v", err)
	}
	inst, err = x86asm.Decode(buf[:5], 64)
	if err != nil {
		t.Fatalf("x86asm.Decode(JMP): %v", err)
	}
	if inst.Op != x86asm.JMP {
		t.Fatalf("decoded op = %v, want JMP", inst.Op)
	}
	if inst.Len != 5 {
		t.Fatalf("decoded length = %d, want 5", inst.Len)
	}
}

func TestWriteRel32RejectsOutOfRangeTarget(t *testing.T) {
	buf := make([]byte, 16)
	location := sliceAddr(buf)

	if err := archApply(location, location+1<<33); err == nil {
		t.Fatal("expected an error for a target outside rel32 range")
	}
}
