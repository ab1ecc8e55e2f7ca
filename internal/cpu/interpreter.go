package cpu

// Default implementations of the dispatch bridge (§4.4). Generated code
// rebinds CPU.Dispatch/CPU.DispatchCall at startup; until then (and for any
// address the generator didn't cover) these run. The fallback is a
// diagnostic stub: it recognizes exactly the two HRAM OAM-DMA idioms games
// commonly place in HRAM, and otherwise logs and returns without advancing
// PC past addr.

// interpreterDispatch is the default CPU.Dispatch: enter addr, run the
// interpreter fallback.
func interpreterDispatch(c *CPU, addr uint16) {
	c.PC = addr
	interpret(c)
}

// interpreterCall is the default CPU.DispatchCall: push the current PC
// (generated code calling into an un-recompiled region expects a normal
// return), then dispatch.
func interpreterCall(c *CPU, addr uint16) {
	c.PushPC()
	interpreterDispatch(c, addr)
}

// interpret recognizes:
//  1. LDH (FF46),A            : E0 46
//  2. LD A,n ; LDH (FF46),A   : 3E n E0 46
//
// and emulates either one directly, followed by RET. Anything else is
// logged and left alone; the caller's PC advances no further than addr.
func interpret(c *CPU) {
	addr := c.PC
	op := c.Bus.Read8(addr)

	switch op {
	case 0xE0: // LDH (n),A
		if c.Bus.Read8(addr+1) == 0x46 {
			c.Bus.Write8(0xFF46, c.A)
			c.Ret()
			return
		}
	case 0x3E: // LD A,n
		n := c.Bus.Read8(addr + 1)
		if c.Bus.Read8(addr+2) == 0xE0 && c.Bus.Read8(addr+3) == 0x46 {
			c.A = n
			c.Bus.Write8(0xFF46, c.A)
			c.Ret()
			return
		}
	}

	c.logf("cpu: uncompiled dispatch at 0x%04X (opcode 0x%02X), diagnostic stub returning", addr, op)
}
