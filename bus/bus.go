// Package bus implements the address-decoded memory map that sits
// between the CPU and RAM/ROM. It is a pure mapper: it knows nothing
// about instruction decoding or CPU status.
package bus

import (
	"fmt"
	"log"
)

// Kind distinguishes a RAM segment (readable and writable) from a ROM
// segment (readable, writes silently dropped).
type Kind int

const (
	// RAM is a read/write backed segment.
	RAM Kind = iota
	// ROM is a read-only backed segment. Writes are dropped, not faulted,
	// per the observed source behavior this design follows.
	ROM
)

// ConstructionError is returned by the builder when a segment can't be
// added as specified.
type ConstructionError struct {
	Reason string
}

// Error implements the error interface.
func (e ConstructionError) Error() string {
	return fmt.Sprintf("bus construction error: %s", e.Reason)
}

// segment is one mapped, page-aligned region of the address space.
type segment struct {
	start   uint16
	end     uint16
	kind    Kind
	storage []uint8
}

func (s *segment) contains(addr uint16) bool {
	return addr >= s.start && addr <= s.end
}

func (s *segment) read(addr uint16) uint8 {
	return s.storage[addr-s.start]
}

func (s *segment) write(addr uint16, val uint8) {
	if s.kind == ROM {
		return
	}
	s.storage[addr-s.start] = val
}

// Bus is an ordered list of segments. On access the first matching
// segment (in iteration order) services the request. Segments are
// prepended on add so the last-added segment wins on overlap.
type Bus struct {
	segments []*segment
}

// Builder constructs an immutable Bus by accumulating segments. Use
// NewBuilder to start one and Build to produce the final Bus.
type Builder struct {
	b   *Bus
	err error
}

// NewBuilder starts a new, empty Bus builder.
func NewBuilder() *Builder {
	return &Builder{b: &Bus{}}
}

func validateRange(start, end uint16) error {
	if start > end {
		return ConstructionError{Reason: fmt.Sprintf("start %.4X > end %.4X", start, end)}
	}
	if start%0x100 != 0 {
		return ConstructionError{Reason: fmt.Sprintf("start %.4X is not page aligned", start)}
	}
	if (uint32(end)+1)%0x100 != 0 {
		return ConstructionError{Reason: fmt.Sprintf("end %.4X does not end a page", end)}
	}
	return nil
}

// AddRAM maps a new RAM segment of size bytes starting at start.
// size must leave a page-aligned range (start..start+size-1).
func (bld *Builder) AddRAM(start uint16, size int) *Builder {
	if bld.err != nil {
		return bld
	}
	if size <= 0 || size > 0x10000 {
		bld.err = ConstructionError{Reason: fmt.Sprintf("invalid RAM size %d", size)}
		return bld
	}
	end := start + uint16(size-1)
	if err := validateRange(start, end); err != nil {
		bld.err = err
		return bld
	}
	s := &segment{start: start, end: end, kind: RAM, storage: make([]uint8, size)}
	bld.b.segments = append([]*segment{s}, bld.b.segments...)
	return bld
}

// AddROM maps the given bytes as a read-only segment starting at start.
func (bld *Builder) AddROM(start uint16, data []uint8) *Builder {
	if bld.err != nil {
		return bld
	}
	if len(data) == 0 {
		bld.err = ConstructionError{Reason: "ROM image is empty"}
		return bld
	}
	end := start + uint16(len(data)-1)
	if err := validateRange(start, end); err != nil {
		bld.err = err
		return bld
	}
	storage := make([]uint8, len(data))
	copy(storage, data)
	s := &segment{start: start, end: end, kind: ROM, storage: storage}
	bld.b.segments = append([]*segment{s}, bld.b.segments...)
	return bld
}

// AddROMAtEnd maps data such that its last byte lands at $FFFF,
// covering the interrupt vectors.
func (bld *Builder) AddROMAtEnd(data []uint8) *Builder {
	if bld.err != nil {
		return bld
	}
	if len(data) < 6 {
		bld.err = ConstructionError{Reason: "ROM image too small to contain interrupt vectors"}
		return bld
	}
	start := 0x10000 - len(data)
	return bld.AddROM(uint16(start), data)
}

// Build finalizes the Bus, returning any construction error encountered
// along the way.
func (bld *Builder) Build() (*Bus, error) {
	if bld.err != nil {
		return nil, bld.err
	}
	return bld.b, nil
}

// ReadByte returns the byte at addr. Reads to unmapped addresses return
// 0 and log an error; they are not fatal.
func (b *Bus) ReadByte(addr uint16) uint8 {
	for _, s := range b.segments {
		if s.contains(addr) {
			return s.read(addr)
		}
	}
	log.Printf("bus: read from unmapped address $%.4X, returning 0", addr)
	return 0
}

// WriteByte writes val to addr. Writes to unmapped addresses are
// dropped and logged; writes to ROM segments are silently dropped.
func (b *Bus) WriteByte(addr uint16, val uint8) {
	for _, s := range b.segments {
		if s.contains(addr) {
			s.write(addr, val)
			return
		}
	}
	log.Printf("bus: write to unmapped address $%.4X dropped", addr)
}

// ReadTwoBytes reads the bytes at addr and addr+1 (16-bit wrapping on
// the second read), returning them in little-endian order [lo, hi].
func (b *Bus) ReadTwoBytes(addr uint16) [2]uint8 {
	return [2]uint8{b.ReadByte(addr), b.ReadByte(addr + 1)}
}

// ReadAddress composes ReadTwoBytes into a little-endian 16-bit address.
func (b *Bus) ReadAddress(addr uint16) uint16 {
	bytes := b.ReadTwoBytes(addr)
	return uint16(bytes[0]) + uint16(bytes[1])<<8
}

// WriteBytes bulk writes data starting at addr. When the whole range
// falls inside one RAM segment a contiguous copy is used; otherwise it
// falls back to per-byte writes so ROM/unmapped semantics still apply.
func (b *Bus) WriteBytes(addr uint16, data []uint8) {
	if len(data) == 0 {
		return
	}
	end := addr + uint16(len(data)-1)
	if end >= addr {
		for _, s := range b.segments {
			if s.kind == RAM && addr >= s.start && end <= s.end {
				copy(s.storage[addr-s.start:], data)
				return
			}
		}
	}
	for i, v := range data {
		b.WriteByte(addr+uint16(i), v)
	}
}
