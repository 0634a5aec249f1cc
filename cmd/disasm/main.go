// disasm disassembles a ROM image or a user program image to stdout,
// starting at the reset vector (for a ROM) or the load address (for a
// program file).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mattbrant/sixtyfive/bus"
	"github.com/mattbrant/sixtyfive/cpu"
	"github.com/mattbrant/sixtyfive/decode"
	"github.com/mattbrant/sixtyfive/inspect"
	"github.com/mattbrant/sixtyfive/romimage"
)

var (
	program  = flag.Bool("program", false, "Treat the file as a user program image (2-byte load address prefix) instead of a ROM image")
	startPC  = flag.Int("start_pc", -1, "PC to start disassembling at; defaults to the reset vector for a ROM, or the load address for a program")
	count    = flag.Int("count", 64, "Number of instructions to disassemble")
	debugExt = flag.Bool("debug_ext", false, "Recognize the VRFY/FAIL/HALT debug opcodes")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [flags] <file>", os.Args[0])
	}
	path := flag.Args()[0]

	var b *bus.Bus
	pc := uint16(*startPC)

	if *program {
		img, err := romimage.LoadProgramFile(path)
		if err != nil {
			log.Fatalf("loading program: %v", err)
		}
		built, err := bus.NewBuilder().AddRAM(0x0000, 0x10000).Build()
		if err != nil {
			log.Fatalf("building bus: %v", err)
		}
		built.WriteBytes(img.Address, img.Data)
		b = built
		if *startPC < 0 {
			pc = img.Address
		}
	} else {
		rom, err := romimage.LoadROMFile(path)
		if err != nil {
			log.Fatalf("loading ROM: %v", err)
		}
		built, err := romimage.BuildBus(rom)
		if err != nil {
			log.Fatalf("building bus: %v", err)
		}
		b = built
		if *startPC < 0 {
			pc = b.ReadAddress(cpu.ResetVector)
		}
	}

	table := decode.NewTable(*debugExt)
	for _, line := range inspect.Disassemble(b, table, pc, *count) {
		fmt.Println(line)
	}
}
