// Package machine wires the CPU, bus, PPU, and platform layer together and
// implements the tick loop / frame pacer (spec §4.6): the component that
// owns the cycle counters and drives rendering and input polling.
package machine

import (
	"fmt"
	"io"

	"github.com/dmgcore/runtime/internal/bus"
	"github.com/dmgcore/runtime/internal/cart"
	"github.com/dmgcore/runtime/internal/cpu"
	"github.com/dmgcore/runtime/internal/platform"
	"github.com/dmgcore/runtime/internal/ppu"
)

const (
	cyclesPerFrame = 70224
	pollInterval   = 4096
)

// Platform is the host capability consumed by the tick loop (spec §6's
// Platform contract).
type Platform = platform.Platform

// Context owns every emulation resource: the register file, the address
// space, the PPU, and the platform handle. Exactly one goroutine may drive
// it at a time (§5's concurrency model).
type Context struct {
	CPU *cpu.CPU
	Bus *bus.Bus
	PPU *ppu.PPU

	Platform Platform
	Joypad   *JoypadState

	Config Config

	cycles      uint64
	frameCycles uint64
	pollAccum   int
}

// NewContext allocates a Context with all owned memory regions but no ROM
// loaded and no platform attached yet.
func NewContext(cfg Config) *Context {
	cfg = cfg.Defaults()

	b := bus.New()
	p := ppu.New()
	b.AttachPPU(p)

	c := cpu.New(b)
	c.DebugDispatch = cfg.DebugInterrupts

	joy := NewJoypadState()
	b.SetJoypadProvider(joy)

	return &Context{
		CPU:    c,
		Bus:    b,
		PPU:    p,
		Joypad: joy,
		Config: cfg,
	}
}

// AttachPlatform installs the host platform handle.
func (ctx *Context) AttachPlatform(p Platform) { ctx.Platform = p }

// SetSerialWriter installs the optional SB/SC sink (e.g. a blargg test
// runner's output capture).
func (ctx *Context) SetSerialWriter(w io.Writer) { ctx.Bus.SetSerialWriter(w) }

// SetBootROM installs a boot ROM overlay to run before the cartridge's own
// entry point.
func (ctx *Context) SetBootROM(rom []byte) { ctx.Bus.SetBootROM(rom) }

// LoadROM parses rom's header, constructs the matching cartridge mapper,
// attaches it, and resets the machine to its post-load state.
func (ctx *Context) LoadROM(rom []byte) error {
	c, err := cart.NewCartridge(rom)
	if err != nil {
		return fmt.Errorf("machine: load ROM: %w", err)
	}
	ctx.Bus.AttachCartridge(c)
	ctx.Reset(ctx.Config.SkipBootROM)
	return nil
}

// Reset puts the bus, CPU, and PPU into their post-boot (or boot-ROM
// entry) state. skipBoot=true bypasses any installed boot ROM overlay and
// starts execution at the cartridge's entry point (0x0100) with the
// register file already in its post-boot form.
func (ctx *Context) Reset(skipBoot bool) {
	ctx.Bus.Reset(skipBoot)
	ctx.PPU.Init()
	ctx.Bus.AttachPPU(ctx.PPU)
	if skipBoot {
		ctx.CPU.Reset()
	} else {
		ctx.CPU.ResetToBootROM()
	}
	ctx.cycles = 0
	ctx.frameCycles = 0
	ctx.pollAccum = 0
}

// Cycles returns the total elapsed T-cycles since Reset.
func (ctx *Context) Cycles() uint64 { return ctx.cycles }

// Tick implements §4.6's tick(cycles): advance cycle counters, run the
// interrupt dispatch rule, advance the PPU, and handle the frame-ready and
// periodic-poll suspension points.
func (ctx *Context) Tick(cycles int) {
	ctx.cycles += uint64(cycles)
	ctx.frameCycles += uint64(cycles)

	ctx.CPU.ServiceInterrupts()

	ctx.PPU.Tick(cycles, ctx.Bus)

	if ctx.PPU.FrameReady() {
		if ctx.Platform != nil {
			ctx.Platform.RenderFrame(ctx.PPU.GetFramebuffer())
			ctx.Platform.VSync()
		}
		ctx.PPU.ClearFrameReady()
	}

	ctx.pollAccum += cycles
	if ctx.pollAccum >= pollInterval {
		ctx.pollAccum -= pollInterval
		ctx.Bus.PollJoypadIRQ()
		if ctx.Platform != nil && !ctx.Platform.PollEvents() {
			ctx.CPU.Stopped = true
		}
	}
}

// Step implements §4.6's step(): invoke the dispatch bridge at PC, then
// promote a pending EI to IME, returning elapsed cycles. An EI executed
// during this step's own dispatch is promoted at the end of the same step.
// Generated dispatch code is expected to call Tick itself as it executes;
// the interpreter fallback does not, so this promotion is what sets IME
// when only the fallback ever runs.
func (ctx *Context) Step() uint64 {
	start := ctx.cycles
	ctx.CPU.Dispatch(ctx.CPU, ctx.CPU.PC)
	if ctx.CPU.IMEPending && !ctx.CPU.IME {
		ctx.CPU.IME = true
		ctx.CPU.IMEPending = false
	}
	return ctx.cycles - start
}

// RunFrame spins step() (or tick(4) while halted) until a full frame's
// worth of cycles has elapsed, and returns the elapsed cycle count.
func (ctx *Context) RunFrame() uint64 {
	ctx.frameCycles = 0
	for ctx.frameCycles < cyclesPerFrame && !ctx.CPU.Stopped {
		if ctx.CPU.Halted {
			ctx.Tick(4)
		} else {
			ctx.Step()
		}
	}
	return ctx.frameCycles
}

// Halt puts the CPU into its degenerate self-contained spin loop: tick by
// 4 cycles at a time, up to one frame's worth, until a pending interrupt
// wakes it (ServiceInterrupts inside Tick clears CPU.Halted as soon as a
// bit is pending, with or without IME set).
func (ctx *Context) Halt() {
	ctx.CPU.Halted = true
	for spun := 0; ctx.CPU.Halted && spun < cyclesPerFrame; spun += 4 {
		ctx.Tick(4)
	}
}
