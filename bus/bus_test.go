package bus

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestRAMReadWrite(t *testing.T) {
	b, err := NewBuilder().AddRAM(0x0000, 0x10000).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	b.WriteByte(0x1234, 0x42)
	if got, want := b.ReadByte(0x1234), uint8(0x42); got != want {
		t.Errorf("ReadByte(0x1234) = %.2X, want %.2X state: %s", got, want, spew.Sdump(b))
	}
}

func TestROMWritesDropped(t *testing.T) {
	rom := make([]uint8, 0x100)
	rom[0] = 0xAA
	b, err := NewBuilder().AddROM(0xFF00, rom).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	b.WriteByte(0xFF00, 0x11)
	if got, want := b.ReadByte(0xFF00), uint8(0xAA); got != want {
		t.Errorf("ROM write wasn't dropped: got %.2X want %.2X", got, want)
	}
}

func TestLastAddedWinsOnOverlap(t *testing.T) {
	b, err := NewBuilder().
		AddRAM(0x0000, 0x10000).
		AddROM(0xF000, make([]uint8, 0x100)).
		Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	// ROM was added after RAM so it should win in the overlapping range.
	b.WriteByte(0xF000, 0x99)
	if got, want := b.ReadByte(0xF000), uint8(0x00); got != want {
		t.Errorf("overlap resolution wrong: got %.2X want %.2X (ROM should have won)", got, want)
	}
}

func TestUnmappedReadReturnsZero(t *testing.T) {
	b, err := NewBuilder().AddRAM(0x0000, 0x100).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	if got, want := b.ReadByte(0x8000), uint8(0x00); got != want {
		t.Errorf("unmapped ReadByte = %.2X, want %.2X", got, want)
	}
}

func TestReadAddressLittleEndian(t *testing.T) {
	b, err := NewBuilder().AddRAM(0x0000, 0x10000).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	b.WriteByte(0x2000, 0x34)
	b.WriteByte(0x2001, 0x12)
	if got, want := b.ReadAddress(0x2000), uint16(0x1234); got != want {
		t.Errorf("ReadAddress = %.4X, want %.4X", got, want)
	}
}

func TestReadAddressWrapsAtEndOfAddressSpace(t *testing.T) {
	b, err := NewBuilder().AddRAM(0x0000, 0x10000).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	b.WriteByte(0xFFFF, 0x78)
	b.WriteByte(0x0000, 0x56)
	if got, want := b.ReadAddress(0xFFFF), uint16(0x5678); got != want {
		t.Errorf("ReadAddress at wraparound = %.4X, want %.4X", got, want)
	}
}

func TestAddROMAtEndPlacesLastByteAtFFFF(t *testing.T) {
	data := make([]uint8, 0x20)
	data[len(data)-1] = 0xAB
	b, err := NewBuilder().AddROMAtEnd(data).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	if got, want := b.ReadByte(0xFFFF), uint8(0xAB); got != want {
		t.Errorf("last ROM byte = %.2X, want %.2X", got, want)
	}
}

func TestBadRangeRejected(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Bus, error)
	}{
		{"unaligned start", func() (*Bus, error) { return NewBuilder().AddRAM(0x0010, 0x100).Build() }},
		{"zero size", func() (*Bus, error) { return NewBuilder().AddRAM(0x0000, 0).Build() }},
		{"too large", func() (*Bus, error) { return NewBuilder().AddRAM(0x0000, 0x10001).Build() }},
		{"empty ROM", func() (*Bus, error) { return NewBuilder().AddROM(0x0000, nil).Build() }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := test.build(); err == nil {
				t.Errorf("%s: expected a construction error, got none", test.name)
			}
		})
	}
}

func TestWriteBytesContiguousCopy(t *testing.T) {
	b, err := NewBuilder().AddRAM(0x0000, 0x10000).Build()
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	b.WriteBytes(0x1000, []uint8{1, 2, 3, 4})
	for i, want := range []uint8{1, 2, 3, 4} {
		if got := b.ReadByte(0x1000 + uint16(i)); got != want {
			t.Errorf("byte %d = %.2X, want %.2X", i, got, want)
		}
	}
}
