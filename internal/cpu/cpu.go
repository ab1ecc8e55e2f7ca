// Package cpu implements the Sharp LR35902 register file, ALU primitives,
// interrupt controller, and dispatch bridge described by the runtime core.
// The package never touches the memory map directly; it calls back into
// whatever Bus it is given.
package cpu

import "log"

// Bus is the memory-mapped address space the CPU operates against. It is
// satisfied by *bus.Bus; kept as an interface here so this package has no
// import-time dependency on bus, matching the "opaque capability" pattern
// used for the PPU and platform layers.
type Bus interface {
	Read8(addr uint16) byte
	Write8(addr uint16, v byte)
	Read16(addr uint16) uint16
	Write16(addr uint16, v uint16)
	Push16(sp uint16, v uint16) uint16
	Pop16(sp uint16) (uint16, uint16)
}

// DispatchFunc is the weak-symbol equivalent described in the design notes:
// a function-pointer field on CPU that generated code can rebind at
// startup. The default value is interpreterDispatch / interpreterCall.
type DispatchFunc func(c *CPU, addr uint16)

// CPU holds the SM83 register file and control flags. It owns no memory;
// every load/store goes through Bus.
type CPU struct {
	A, B, C, D, E, H, L byte
	F                   Flags
	SP, PC              uint16

	IME        bool
	IMEPending bool
	Halted     bool
	Stopped    bool

	Bus Bus

	// Dispatch/DispatchCall are rebound by generated code; defaulted to the
	// interpreter fallback stub at construction and after Reset.
	Dispatch     DispatchFunc
	DispatchCall DispatchFunc

	// DebugDispatch, when true, logs every uncompiled-address fallback hit.
	// Controlled by the GBCORE_DEBUG_INT environment toggle at construction.
	DebugDispatch bool
}

// New creates a CPU wired to bus, with dispatch bound to the interpreter
// fallback.
func New(bus Bus) *CPU {
	c := &CPU{Bus: bus}
	c.Dispatch = interpreterDispatch
	c.DispatchCall = interpreterCall
	return c
}

// Reset puts the register file into DMG post-boot state (the state the
// real boot ROM leaves behind at 0x0100), matching gb_context_reset's
// skip-boot branch. Callers that instead want to execute a
// boot ROM from 0x0000 should leave PC at 0 and the registers zeroed; see
// machine.Context.Reset for the skip-boot switch.
func (c *CPU) Reset() {
	c.A = 0x01
	c.F = UnpackFlags(0xB0)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100

	c.IME = false
	c.IMEPending = false
	c.Halted = false
	c.Stopped = false

	c.Dispatch = interpreterDispatch
	c.DispatchCall = interpreterCall
}

// ResetToBootROM puts the CPU at the boot ROM's entry point with a zeroed
// register file, for callers that have installed a boot ROM overlay.
func (c *CPU) ResetToBootROM() {
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
	c.F = Flags{}
	c.SP = 0x0000
	c.PC = 0x0000

	c.IME = false
	c.IMEPending = false
	c.Halted = false
	c.Stopped = false

	c.Dispatch = interpreterDispatch
	c.DispatchCall = interpreterCall
}

// Register pair accessors. AF's low nibble is always zero by construction
// of Flags.Pack.

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F.Pack()) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) {
	c.A = byte(v >> 8)
	c.F = UnpackFlags(byte(v))
}

func (c *CPU) SetBC(v uint16) {
	c.B = byte(v >> 8)
	c.C = byte(v)
}

func (c *CPU) SetDE(v uint16) {
	c.D = byte(v >> 8)
	c.E = byte(v)
}

func (c *CPU) SetHL(v uint16) {
	c.H = byte(v >> 8)
	c.L = byte(v)
}

// Fetch8 reads the byte at PC and advances PC by one.
func (c *CPU) Fetch8() byte {
	v := c.Bus.Read8(c.PC)
	c.PC++
	return v
}

// Fetch16 reads the little-endian word at PC and advances PC by two.
func (c *CPU) Fetch16() uint16 {
	v := c.Bus.Read16(c.PC)
	c.PC += 2
	return v
}

// PushPC pushes the current PC onto the stack, updating SP.
func (c *CPU) PushPC() {
	c.SP = c.Bus.Push16(c.SP, c.PC)
}

// PopPC pops a return address from the stack into PC, updating SP.
func (c *CPU) PopPC() {
	var v uint16
	v, c.SP = c.Bus.Pop16(c.SP)
	c.PC = v
}

// Call implements the CALL control-flow helper (§4.3): push the return
// address (PC already points past the operand at call time), then enter
// addr through the dispatch bridge.
func (c *CPU) Call(addr uint16) {
	c.PushPC()
	c.Dispatch(c, addr)
}

// Ret implements RET: pop PC from the stack.
func (c *CPU) Ret() {
	c.PopPC()
}

// Rst implements RST vec: push PC, dispatch at vec.
func (c *CPU) Rst(vec uint16) {
	c.PushPC()
	c.Dispatch(c, vec)
}

func (c *CPU) logf(format string, args ...interface{}) {
	if c.DebugDispatch {
		log.Printf(format, args...)
	}
}
