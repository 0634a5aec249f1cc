// Package inspect implements a read-only projection over a running CPU:
// register snapshots, memory windows, disassembly and bounded execution
// history. It never advances CPU state.
package inspect

import (
	"fmt"
	"strings"

	"github.com/mattbrant/sixtyfive/bus"
	"github.com/mattbrant/sixtyfive/cpu"
	"github.com/mattbrant/sixtyfive/decode"
)

// Inspector wraps a CPU for read-only introspection.
type Inspector struct {
	cpu   *cpu.CPU
	table *decode.Table
}

// New wraps c. debugExt must match the table c was constructed with so
// disassembly recognizes the VRFY/FAIL/HALT opcodes when present.
func New(c *cpu.CPU, debugExt bool) *Inspector {
	return &Inspector{cpu: c, table: decode.NewTable(debugExt)}
}

// Registers returns the current architectural register snapshot.
func (in *Inspector) Registers() cpu.Registers {
	return in.cpu.Snapshot()
}

// State returns the CPU's coarse execution state.
func (in *Inspector) State() cpu.State {
	return in.cpu.State()
}

// History returns the bounded execution history, oldest first.
func (in *Inspector) History() []cpu.HistoryEntry {
	return in.cpu.History()
}

// MemoryWindow returns length bytes starting at addr, read through the
// CPU's bus. Reads of unmapped regions return zero per Bus.ReadByte.
func (in *Inspector) MemoryWindow(addr uint16, length int) []uint8 {
	out := make([]uint8, length)
	for i := range out {
		out[i] = in.cpu.Bus().ReadByte(addr + uint16(i))
	}
	return out
}

// Disassemble returns up to n disassembled instructions starting at
// addr, one line each. It does not interpret control flow: it walks
// memory linearly, so embedded data or a JMP target elsewhere in
// memory disassembles as whatever bytes happen to sit there.
func (in *Inspector) Disassemble(addr uint16, n int) []string {
	return Disassemble(in.cpu.Bus(), in.table, addr, n)
}

// Disassemble disassembles n instructions starting at addr directly
// off a bus, with no CPU required. Used by standalone tooling that
// wants to list a ROM or program image without running it.
func Disassemble(b *bus.Bus, table *decode.Table, addr uint16, n int) []string {
	lines := make([]string, 0, n)
	pc := addr
	for i := 0; i < n; i++ {
		line, size := disassembleOne(b, table, pc)
		lines = append(lines, line)
		pc += uint16(size)
	}
	return lines
}

// disassembleOne formats the instruction at pc and returns the number
// of bytes it occupies (at least 1, so callers always make progress
// even over an undefined opcode).
func disassembleOne(b *bus.Bus, table *decode.Table, pc uint16) (string, int) {
	opcode := b.ReadByte(pc)
	entry := table.Lookup(opcode)
	if entry == nil {
		return fmt.Sprintf("%.4X  %.2X        .byte $%.2X", pc, opcode, opcode), 1
	}

	opBytes := entry.Mode.OperandBytes()
	var b1, b2 uint8
	if opBytes >= 1 {
		b1 = b.ReadByte(pc + 1)
	}
	if opBytes >= 2 {
		b2 = b.ReadByte(pc + 2)
	}

	var hex strings.Builder
	fmt.Fprintf(&hex, "%.2X", opcode)
	if opBytes >= 1 {
		fmt.Fprintf(&hex, " %.2X", b1)
	}
	if opBytes >= 2 {
		fmt.Fprintf(&hex, " %.2X", b2)
	}

	var operand string
	switch entry.Mode {
	case decode.Implied:
		operand = ""
	case decode.Accumulator:
		operand = "A"
	case decode.Immediate:
		operand = fmt.Sprintf("#$%.2X", b1)
	case decode.Zeropage:
		operand = fmt.Sprintf("$%.2X", b1)
	case decode.ZeropageX:
		operand = fmt.Sprintf("$%.2X,X", b1)
	case decode.ZeropageY:
		operand = fmt.Sprintf("$%.2X,Y", b1)
	case decode.IndirectX:
		operand = fmt.Sprintf("($%.2X,X)", b1)
	case decode.IndirectY:
		operand = fmt.Sprintf("($%.2X),Y", b1)
	case decode.Absolute:
		operand = fmt.Sprintf("$%.2X%.2X", b2, b1)
	case decode.AbsoluteX:
		operand = fmt.Sprintf("$%.2X%.2X,X", b2, b1)
	case decode.AbsoluteY:
		operand = fmt.Sprintf("$%.2X%.2X,Y", b2, b1)
	case decode.Indirect:
		operand = fmt.Sprintf("($%.2X%.2X)", b2, b1)
	case decode.Relative:
		target := uint16(int32(pc) + 2 + int32(int8(b1)))
		operand = fmt.Sprintf("$%.2X (%.4X)", b1, target)
	}

	return fmt.Sprintf("%.4X  %-8s %s %s", pc, hex.String(), entry.Mnemonic, operand), 1 + opBytes
}
