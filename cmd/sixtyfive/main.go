// sixtyfive loads a ROM image and an optional user program and runs
// the emulator, optionally under the interactive terminal inspector.
package main

import (
	"flag"
	"log"

	"github.com/mattbrant/sixtyfive/clock"
	"github.com/mattbrant/sixtyfive/cpu"
	"github.com/mattbrant/sixtyfive/harness"
	"github.com/mattbrant/sixtyfive/romimage"
	"github.com/mattbrant/sixtyfive/tui"
)

var (
	romFile     = flag.String("rom-file", "assembly/standard.rom", "Path to the ROM image, placed so its last byte lands at $FFFF")
	programFile = flag.String("program-file", "", "Optional user program image to load and run after reset")
	speed       = flag.Int("speed", clock.Default6502Hz, "Clock speed in Hz when not running unthrottled")
	unthrottled = flag.Bool("unthrottled", false, "If true, run as fast as possible instead of pacing to speed")
	debugExt    = flag.Bool("debug-ext", false, "If true, enable the VRFY/FAIL/HALT debug opcodes at $FA/$FB/$FC")
	interactive = flag.Bool("interactive", false, "If true, run under the terminal inspector instead of free-running")
)

func main() {
	flag.Parse()

	rom, err := romimage.LoadROMFile(*romFile)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}
	b, err := romimage.BuildBus(rom)
	if err != nil {
		log.Fatalf("building bus: %v", err)
	}

	c, err := cpu.New(cpu.Config{
		Bus:            b,
		DebugExtension: *debugExt,
		Harness:        harness.NopCallback{},
	})
	if err != nil {
		log.Fatalf("reset bootstrap: %v", err)
	}

	if *programFile != "" {
		img, err := romimage.LoadProgramFile(*programFile)
		if err != nil {
			log.Fatalf("loading program: %v", err)
		}
		if err := c.LoadProgram(img.Address, img.Data); err != nil {
			log.Fatalf("loading program into memory: %v", err)
		}
	}

	if *interactive {
		if err := tui.Run(c, *debugExt); err != nil {
			log.Fatalf("tui: %v", err)
		}
		return
	}

	mode := clock.RealTime
	if *unthrottled {
		mode = clock.Unthrottled
	}
	clk := clock.New(mode, *speed)

	for {
		cycles, ok, err := c.FetchAndExecute()
		if err != nil {
			log.Fatalf("execution error: %v", err)
		}
		if !ok {
			log.Printf("halted at PC=$%.4X", c.Snapshot().PC)
			return
		}
		clk.Wait(uint16(cycles))
	}
}
