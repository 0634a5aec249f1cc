// Package romimage loads the two binary formats the driver accepts: a
// ROM image (placed so its last byte lands at $FFFF, covering the
// interrupt vectors) and a user program image (a binary whose first two
// bytes give its little-endian load address, in the style of a C64
// PRG).
package romimage

import (
	"fmt"
	"os"

	"github.com/mattbrant/sixtyfive/bus"
)

// LoadError is returned when a file can't be read or is structurally
// invalid for the format being loaded.
type LoadError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// LoadROMFile reads the raw bytes of a ROM image from path.
func LoadROMFile(path string) ([]uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadError{Path: path, Reason: err.Error()}
	}
	if len(data) < 6 {
		return nil, LoadError{Path: path, Reason: "too small to contain interrupt vectors"}
	}
	return data, nil
}

// BuildBus assembles the standard machine layout: a RAM segment from
// $0000 through the byte before the ROM image starts, and the ROM
// image placed so its last byte lands at $FFFF.
func BuildBus(romData []uint8) (*bus.Bus, error) {
	romStart := 0x10000 - len(romData)
	if romStart <= 0 || romStart%0x100 != 0 {
		return nil, LoadError{Reason: fmt.Sprintf("ROM size %d does not leave a page-aligned RAM region", len(romData))}
	}
	return bus.NewBuilder().
		AddRAM(0x0000, romStart).
		AddROMAtEnd(romData).
		Build()
}

// ProgramImage is a user program ready to load: its target address and
// the bytes to place there.
type ProgramImage struct {
	Address uint16
	Data    []uint8
}

// LoadProgramFile reads a user program image from path. Like a C64 PRG
// file, the first two bytes are the little-endian load address and
// the remainder is the program.
func LoadProgramFile(path string) (ProgramImage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProgramImage{}, LoadError{Path: path, Reason: err.Error()}
	}
	if len(raw) < 2 {
		return ProgramImage{}, LoadError{Path: path, Reason: "missing 2-byte load address"}
	}
	addr := uint16(raw[0]) + uint16(raw[1])<<8
	return ProgramImage{Address: addr, Data: raw[2:]}, nil
}
