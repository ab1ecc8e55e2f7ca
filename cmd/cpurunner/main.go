// Command cpurunner drives a blargg-style CPU instruction test ROM
// headless, capturing its serial-port test output and exiting non-zero on
// a reported failure.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmgcore/runtime/internal/machine"
)

func main() {
	romPath := flag.String("rom", "", "path to a blargg-style test ROM")
	maxFrames := flag.Int("maxframes", 3600, "frame budget before giving up")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("cpurunner: -rom is required")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("cpurunner: %v", err)
	}

	var output bytes.Buffer
	ctx := machine.NewContext(machine.Config{SkipBootROM: true}.Defaults())
	ctx.SetSerialWriter(writerFunc(output.Write))

	if err := ctx.LoadROM(rom); err != nil {
		log.Fatalf("cpurunner: %v", err)
	}

	for i := 0; i < *maxFrames && !ctx.CPU.Stopped; i++ {
		ctx.RunFrame()
		if bytes.Contains(output.Bytes(), []byte("Passed")) || bytes.Contains(output.Bytes(), []byte("Failed")) {
			break
		}
	}

	fmt.Print(output.String())

	if bytes.Contains(output.Bytes(), []byte("Failed")) {
		os.Exit(1)
	}
}

// writerFunc adapts a plain write function to io.Writer, avoiding a named
// struct for a single-method adapter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
