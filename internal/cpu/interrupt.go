package cpu

// Interrupt register addresses in bus space. IF lives at 0xFF0F (io[0x0F]);
// IE lives at 0xFFFF, backed by the single io[128] byte (see the memory
// map's open question about dual addressing) so there is exactly one source
// of truth for it.
const (
	regIF = 0xFF0F
	regIE = 0xFFFF
)

// Interrupt bit/vector table in priority order (lowest bit wins).
var interruptVectors = [...]struct {
	bit    byte
	vector uint16
}{
	{0x01, 0x0040}, // VBlank
	{0x02, 0x0048}, // LCD STAT
	{0x04, 0x0050}, // Timer
	{0x08, 0x0058}, // Serial
	{0x10, 0x0060}, // Joypad
}

// EI marks IME for promotion after the *next* step boundary, matching
// hardware's one-instruction enable delay. Generated dispatch code (or the
// interpreter fallback) calls this for the EI opcode.
func (c *CPU) EI() {
	c.IMEPending = true
}

// DI disables interrupts immediately; there is no delay on the disable side.
func (c *CPU) DI() {
	c.IME = false
	c.IMEPending = false
}

// Pending reports the currently pending, enabled interrupt bits (IF & IE &
// 0x1F), independent of IME.
func (c *CPU) Pending() byte {
	ifReg := c.Bus.Read8(regIF)
	ieReg := c.Bus.Read8(regIE)
	return ifReg & ieReg & 0x1F
}

// ServiceInterrupts implements the dispatch rule in §4.5. It is called once
// per tick by the frame pacer, and also drives HALT's wake condition:
//
//  1. Promote ime_pending to ime, if set. This happens on the first call
//     after EI, whichever step that call falls in; the CPU does not record
//     which step EI executed in.
//  2. If ime and a bit is pending, service the highest-priority one: clear
//     ime, clear halted, clear the bit in IF, push PC, dispatch(vector).
//
// Wake-from-halt fires whenever a bit is pending, regardless of ime; when
// ime is 0 the CPU simply resumes past HALT without servicing a vector.
func (c *CPU) ServiceInterrupts() {
	pending := c.Pending()

	if pending != 0 {
		c.Halted = false
	}

	if c.IMEPending {
		c.IME = true
		c.IMEPending = false
	}

	if !c.IME || pending == 0 {
		return
	}

	for _, iv := range interruptVectors {
		if pending&iv.bit == 0 {
			continue
		}
		c.IME = false
		ifReg := c.Bus.Read8(regIF)
		c.Bus.Write8(regIF, ifReg&^iv.bit)
		c.logf("cpu: servicing interrupt bit 0x%02X -> vector 0x%04X", iv.bit, iv.vector)
		c.PushPC()
		c.Dispatch(c, iv.vector)
		return
	}
}
