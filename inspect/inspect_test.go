package inspect

import (
	"strings"
	"testing"

	"github.com/mattbrant/sixtyfive/bus"
	"github.com/mattbrant/sixtyfive/cpu"
)

func newInspectorOverRAM(t *testing.T) (*Inspector, *bus.Bus) {
	t.Helper()
	b, err := bus.NewBuilder().AddRAM(0x0000, 0x10000).Build()
	if err != nil {
		t.Fatalf("building bus: %v", err)
	}
	b.WriteByte(cpu.ResetVector, 0x00)
	b.WriteByte(cpu.ResetVector+1, 0x80)
	b.WriteByte(0x8000, 0x00) // BRK: halt immediately on construction
	c, err := cpu.New(cpu.Config{Bus: b})
	if err != nil {
		t.Fatalf("cpu.New: %v", err)
	}
	return New(c, false), b
}

func TestRegistersReflectsCPU(t *testing.T) {
	in, _ := newInspectorOverRAM(t)
	regs := in.Registers()
	if regs.SP != 0xFD {
		t.Errorf("SP = $%.2X, want $FD (default reset value, untouched by a bare BRK)", regs.SP)
	}
}

func TestMemoryWindowReadsBus(t *testing.T) {
	in, b := newInspectorOverRAM(t)
	b.WriteBytes(0x2000, []uint8{0x01, 0x02, 0x03, 0x04})
	got := in.MemoryWindow(0x2000, 4)
	want := []uint8{0x01, 0x02, 0x03, 0x04}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = $%.2X, want $%.2X", i, got[i], want[i])
		}
	}
}

func TestDisassembleAdvancesByOperandSize(t *testing.T) {
	in, b := newInspectorOverRAM(t)
	// LDA #$42 ; STA $10 ; JMP $1234
	b.WriteBytes(0x3000, []uint8{0xA9, 0x42, 0x85, 0x10, 0x4C, 0x34, 0x12})
	lines := in.Disassemble(0x3000, 3)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "LDA") || !strings.Contains(lines[0], "#$42") {
		t.Errorf("line 0 = %q, want LDA #$42", lines[0])
	}
	if !strings.Contains(lines[1], "STA") || !strings.Contains(lines[1], "$10") {
		t.Errorf("line 1 = %q, want STA $10", lines[1])
	}
	if !strings.Contains(lines[2], "JMP") || !strings.Contains(lines[2], "$1234") {
		t.Errorf("line 2 = %q, want JMP $1234", lines[2])
	}
}

func TestDisassembleUndefinedOpcodeStillAdvances(t *testing.T) {
	in, b := newInspectorOverRAM(t)
	b.WriteBytes(0x4000, []uint8{0x02, 0xEA})
	lines := in.Disassemble(0x4000, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "NOP") {
		t.Errorf("line 1 = %q, want to have advanced past the undefined byte to NOP", lines[1])
	}
}

func TestHistoryRecordsResetBootstrap(t *testing.T) {
	in, _ := newInspectorOverRAM(t)
	// The reset bootstrap itself records history; a fresh machine always
	// has at least the BRK that halted it.
	hist := in.History()
	if len(hist) == 0 {
		t.Errorf("expected reset bootstrap to be recorded in history")
	}
}
