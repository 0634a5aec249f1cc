// Package cpu implements the CMOS 6502 fetch-decode-execute engine: its
// registers, flags, stack and interrupt handling, and the addressing
// modes used to compute an instruction's effective operand.
package cpu

import (
	"github.com/mattbrant/sixtyfive/bus"
	"github.com/mattbrant/sixtyfive/decode"
	"github.com/mattbrant/sixtyfive/harness"
	"github.com/mattbrant/sixtyfive/irq"
)

// Flag bits of the status register, high to low: N V 1 B D I Z C.
const (
	FlagNegative  = uint8(0x80)
	FlagOverflow  = uint8(0x40)
	flagAlways1   = uint8(0x20) // bit 5, always read as 1
	FlagBreak     = uint8(0x10)
	FlagDecimal   = uint8(0x08)
	FlagInterrupt = uint8(0x04)
	FlagZero      = uint8(0x02)
	FlagCarry     = uint8(0x01)
)

// Interrupt vectors, little-endian 16-bit pointers at fixed addresses.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// userRegionStart/End bound where LoadProgram will accept an address,
// leaving zero page, the stack page, and the vector/ROM tail reserved.
const (
	userRegionStart = uint16(0x0200)
	userRegionEnd   = uint16(0xFDFF)
)

// State is the CPU's coarse execution state.
type State int

const (
	// Running indicates the CPU is executing normal instructions.
	Running State = iota
	// Halted indicates BRK or the debug HALT opcode stopped execution.
	Halted
	// InInterrupt indicates an NMI or IRQ handler is currently running
	// (entered on the hardware trigger, left on RTI).
	InInterrupt
)

// Status is the structured status register. bit 5 is always forced to
// 1 when serialized; it has no storage of its own.
type Status struct {
	N, V, B, D, I, Z, C bool
}

// ToByte serializes P into its canonical 8 bit layout, N V 1 B D I Z C.
func (s Status) ToByte() uint8 {
	var b uint8
	if s.N {
		b |= FlagNegative
	}
	if s.V {
		b |= FlagOverflow
	}
	b |= flagAlways1
	if s.B {
		b |= FlagBreak
	}
	if s.D {
		b |= FlagDecimal
	}
	if s.I {
		b |= FlagInterrupt
	}
	if s.Z {
		b |= FlagZero
	}
	if s.C {
		b |= FlagCarry
	}
	return b
}

// StatusFromByte decodes a status byte. Bit 5 is accepted either way on
// the wire but always reported back as 1 by ToByte.
func StatusFromByte(b uint8) Status {
	return Status{
		N: b&FlagNegative != 0,
		V: b&FlagOverflow != 0,
		B: b&FlagBreak != 0,
		D: b&FlagDecimal != 0,
		I: b&FlagInterrupt != 0,
		Z: b&FlagZero != 0,
		C: b&FlagCarry != 0,
	}
}

// Registers is a value-type snapshot of the architectural state,
// suitable for handing to an inspector or across a thread boundary
// without aliasing the live CPU.
type Registers struct {
	A, X, Y, SP uint8
	PC          uint16
	P           Status
}

// Config configures a new CPU. Bus is required; everything else is
// optional.
type Config struct {
	Bus *bus.Bus
	// DebugExtension enables the VRFY/FAIL/HALT opcodes at $FA/$FB/$FC
	// for the assembly conformance harness.
	DebugExtension bool
	// Harness receives VRFY callbacks when DebugExtension is enabled.
	Harness harness.Callback
	// NMI/IRQ/Rdy are optional external interrupt/pause sources, checked
	// between instructions (never mid-instruction).
	NMI, IRQ, Rdy irq.Sender
	// HistorySize bounds the execution history ring buffer. Defaults to
	// 256 when zero.
	HistorySize int
}

// CPU holds the 6502's architectural state and drives the
// fetch-decode-execute loop against a Bus.
type CPU struct {
	A, X, Y, S uint8
	PC         uint16
	P          Status

	bus     *bus.Bus
	table   *decode.Table
	harness harness.Callback
	nmi     irq.Sender
	irqSrc  irq.Sender
	rdy     irq.Sender

	state State
	// haltOpcode records which opcode halted execution, for diagnostics.
	haltOpcode uint8
	// branchExtra accumulates the taken/page-cross cycle penalty for the
	// branch instruction currently executing; reset before every step.
	branchExtra int

	history    []HistoryEntry
	historyPos int
	historyLen int
}

// New constructs a CPU over the given bus and runs it from the reset
// vector until the reset routine halts (the typical "LDX #$FF; TXS;
// ...; BRK" bootstrap), leaving the machine ready to accept a user
// program. Returns an error if the reset routine never halts within a
// generous instruction budget, or hits a fatal execution error.
func New(cfg Config) (*CPU, error) {
	if cfg.Bus == nil {
		return nil, InvalidStateError{Reason: "Config.Bus is required"}
	}
	size := cfg.HistorySize
	if size <= 0 {
		size = 256
	}
	c := &CPU{
		S:       0xFD,
		P:       Status{I: true, B: true},
		bus:     cfg.Bus,
		table:   decode.NewTable(cfg.DebugExtension),
		harness: cfg.Harness,
		nmi:     cfg.NMI,
		irqSrc:  cfg.IRQ,
		rdy:     cfg.Rdy,
		history: make([]HistoryEntry, size),
		state:   Running,
	}
	c.PC = c.bus.ReadAddress(ResetVector)

	// Run the reset routine to completion. A reasonable instruction
	// budget guards against a ROM whose reset routine never halts.
	const resetBudget = 1 << 20
	for i := 0; i < resetBudget; i++ {
		_, ok, err := c.FetchAndExecute()
		if err != nil {
			return nil, err
		}
		if !ok {
			c.state = Running
			return c, nil
		}
	}
	return nil, InvalidStateError{Reason: "reset routine never halted"}
}

// LoadProgram writes data into the bus starting at addr and sets PC to
// addr, making the CPU ready to execute it on the next
// FetchAndExecute. addr must fall within the recommended user region.
func (c *CPU) LoadProgram(addr uint16, data []uint8) error {
	if addr < userRegionStart || addr > userRegionEnd {
		return ProgramRangeError{Address: addr}
	}
	c.bus.WriteBytes(addr, data)
	c.PC = addr
	c.state = Running
	return nil
}

// State returns the CPU's current coarse execution state.
func (c *CPU) State() State {
	return c.state
}

// Snapshot returns a value-type copy of the architectural registers,
// safe to read without racing a concurrently stepping CPU goroutine (as
// long as the snapshot isn't taken mid-instruction).
func (c *CPU) Snapshot() Registers {
	return Registers{A: c.A, X: c.X, Y: c.Y, SP: c.S, PC: c.PC, P: c.P}
}

// Bus exposes the underlying bus for read-only inspection callers
// (e.g. memory window dumps, disassembly).
func (c *CPU) Bus() *bus.Bus {
	return c.bus
}

// TriggerNMI runs the non-maskable interrupt sequence immediately: it
// is always taken. Intended to be called by a driver between steps in
// response to the interrupt_nmi control signal.
func (c *CPU) TriggerNMI() (cycles int, err error) {
	return c.runInterrupt(NMIVector)
}

// TriggerIRQ runs the maskable interrupt sequence if the I flag is
// clear; otherwise it is a no-op and returns 0 cycles. Intended to be
// called by a driver between steps in response to the interrupt_irq
// control signal.
func (c *CPU) TriggerIRQ() (cycles int, err error) {
	if c.P.I {
		return 0, nil
	}
	return c.runInterrupt(IRQVector)
}

// Paused reports whether an external RDY-style source is currently
// holding the CPU (the driver's pause control signal).
func (c *CPU) Paused() bool {
	return c.rdy != nil && c.rdy.Raised()
}

// FetchAndExecute executes exactly one instruction. ok is false when
// the CPU has halted (BRK, or the debug HALT opcode) and there is no
// more work; err is non-nil only for fatal decode/execute errors.
func (c *CPU) FetchAndExecute() (cycles int, ok bool, err error) {
	if c.state == Halted {
		return 0, false, nil
	}
	if c.PC >= NMIVector {
		return 0, false, PCEscapedError{PC: c.PC}
	}

	// Hardware interrupts are polled between instructions only; never
	// while a handler from a previous trigger is still running.
	if c.state != InInterrupt {
		if c.nmi != nil && c.nmi.Raised() {
			n, err := c.runInterrupt(NMIVector)
			return n, true, err
		}
		if !c.P.I && c.irqSrc != nil && c.irqSrc.Raised() {
			n, err := c.runInterrupt(IRQVector)
			return n, true, err
		}
	}

	addr := c.PC
	opcode := c.bus.ReadByte(addr)
	entry := c.table.Lookup(opcode)
	if entry == nil {
		c.state = Halted
		c.haltOpcode = opcode
		return 0, false, UndefinedOpcodeError{Address: addr, Opcode: opcode}
	}

	opSize := entry.Mode.OperandBytes()
	var opBytes [2]uint8
	for i := 0; i < opSize; i++ {
		opBytes[i] = c.bus.ReadByte(addr + 1 + uint16(i))
	}

	operand, extra := c.resolveOperand(entry.Mode, addr, opBytes)

	// PC advances before execute so instructions that set PC (branches,
	// JMP, JSR, RTS, BRK) overwrite the post-increment value correctly.
	c.PC += uint16(1 + opSize)

	c.branchExtra = 0
	halt, execErr := c.execute(entry.Mnemonic, operand)
	if execErr != nil {
		c.state = Halted
		c.haltOpcode = opcode
		return 0, false, execErr
	}

	c.appendHistory(addr, entry, opBytes[:opSize])

	if halt {
		c.state = Halted
		c.haltOpcode = opcode
		return 0, false, nil
	}
	return entry.BaseCycles + extra + c.branchExtra, true, nil
}

// operandKind tags the tagged-union Operand.
type operandKind int

const (
	opImplied operandKind = iota
	opImmediate
	opAddress
	opAccumulator
)

// operand is the resolved effective operand for one instruction.
type operand struct {
	kind operandKind
	imm  uint8
	addr uint16
}

// resolveOperand computes the effective operand for mode and the extra
// cycles incurred by page-boundary crossings (addressing mode cost
// only; branch-taken cost is added separately in branch).
func (c *CPU) resolveOperand(mode decode.Mode, instrAddr uint16, opBytes [2]uint8) (operand, int) {
	switch mode {
	case decode.Implied:
		return operand{kind: opImplied}, 0
	case decode.Accumulator:
		return operand{kind: opAccumulator}, 0
	case decode.Immediate:
		return operand{kind: opImmediate, imm: opBytes[0]}, 0
	case decode.Relative:
		return operand{kind: opImmediate, imm: opBytes[0]}, 0
	case decode.Absolute:
		a := uint16(opBytes[0]) + uint16(opBytes[1])<<8
		return operand{kind: opAddress, addr: a}, 0
	case decode.AbsoluteX:
		base := uint16(opBytes[0]) + uint16(opBytes[1])<<8
		a := base + uint16(c.X)
		return operand{kind: opAddress, addr: a}, pageCrossExtra(base, a)
	case decode.AbsoluteY:
		base := uint16(opBytes[0]) + uint16(opBytes[1])<<8
		a := base + uint16(c.Y)
		return operand{kind: opAddress, addr: a}, pageCrossExtra(base, a)
	case decode.Zeropage:
		return operand{kind: opAddress, addr: uint16(opBytes[0])}, 0
	case decode.ZeropageX:
		return operand{kind: opAddress, addr: uint16(uint8(opBytes[0] + c.X))}, 0
	case decode.ZeropageY:
		return operand{kind: opAddress, addr: uint16(uint8(opBytes[0] + c.Y))}, 0
	case decode.Indirect:
		ptr := uint16(opBytes[0]) + uint16(opBytes[1])<<8
		a := c.bus.ReadAddress(ptr)
		return operand{kind: opAddress, addr: a}, 0
	case decode.IndirectX:
		zp := uint8(opBytes[0] + c.X)
		a := c.readZPAddress(zp)
		return operand{kind: opAddress, addr: a}, 0
	case decode.IndirectY:
		base := c.readZPAddress(opBytes[0])
		a := base + uint16(c.Y)
		return operand{kind: opAddress, addr: a}, pageCrossExtra(base, a)
	}
	return operand{kind: opImplied}, 0
}

// readZPAddress reads a 16-bit pointer out of zero page with 8-bit
// wrap on the high byte fetch (so base $FF reads $FF then $00).
func (c *CPU) readZPAddress(zp uint8) uint16 {
	lo := c.bus.ReadByte(uint16(zp))
	hi := c.bus.ReadByte(uint16(uint8(zp + 1)))
	return uint16(lo) + uint16(hi)<<8
}

// pageCrossExtra returns 1 if base and final are in different pages.
func pageCrossExtra(base, final uint16) int {
	if base&0xFF00 != final&0xFF00 {
		return 1
	}
	return 0
}
