// Package bus implements the memory-mapped address space described in
// spec §4.1: exhaustive 16-bit decode across ROM/VRAM/ERAM/WRAM/OAM/IO/HRAM,
// with MBC register writes delegated to a cart.Cartridge and LCD registers
// delegated to a PPU capability.
package bus

import (
	"io"
	"log"
	"os"

	"github.com/dmgcore/runtime/internal/cart"
)

const (
	vramBankSize = 0x2000
	wramBankSize = 0x1000
	oamSize      = 0xA0
	hramSize     = 0x7F
	ioSize       = 129 // 0xFF00-0xFF7F (128 bytes) + one tail slot for IE

	ieIndex = 128
)

// PPU is the capability the bus delegates 0xFF40-0xFF4B to.
type PPU interface {
	ReadRegister(addr uint16) byte
	WriteRegister(addr uint16, v byte)
}

// JoypadProvider supplies the platform-owned button state. Per the design
// note on avoiding process-global mutable state, the bus holds a borrowed
// reference rather than package-level variables.
type JoypadProvider interface {
	DPad() byte    // active-low, low nibble meaningful
	Buttons() byte // active-low, low nibble meaningful
}

type nullJoypad struct{}

func (nullJoypad) DPad() byte    { return 0x0F }
func (nullJoypad) Buttons() byte { return 0x0F }

// Bus owns every memory region except ROM/cartridge-RAM, which it
// delegates to a cart.Cartridge, and the LCD register block, delegated to
// a PPU.
type Bus struct {
	cart cart.Cartridge
	ppu  PPU

	bootROM     []byte
	bootEnabled bool

	vram     []byte
	vramBank byte

	wram     []byte
	wramBank byte

	oam  []byte
	hram []byte
	io   [ioSize]byte

	joypad       JoypadProvider
	prevJoypadLo byte

	serialWriter io.Writer

	dmaDebug bool
}

// New constructs a Bus with all owned regions allocated per spec §3's
// sizes, and no cartridge/PPU attached yet.
func New() *Bus {
	b := &Bus{
		vram:     make([]byte, 2*vramBankSize),
		wram:     make([]byte, 8*wramBankSize),
		oam:      make([]byte, oamSize),
		hram:     make([]byte, hramSize),
		joypad:   nullJoypad{},
		dmaDebug: os.Getenv("GBCORE_DEBUG_MBC") != "",
	}
	b.wramBank = 1
	b.prevJoypadLo = 0x0F
	return b
}

// PollJoypadIRQ checks the currently selected joypad lines for a falling
// edge (any bit going from unpressed to pressed) and requests the joypad
// interrupt (IF bit 4) if one occurred. spec §4.1 only specifies joypad
// *read* semantics; this generalizes the teacher's edge-triggered joypad
// IRQ, invoked by the tick loop's periodic platform poll rather than on
// every bus read.
func (b *Bus) PollJoypadIRQ() {
	cur := b.readJoypad() & 0x0F
	fell := b.prevJoypadLo &^ cur
	if fell != 0 {
		b.io[0x0F] |= 0x10
	}
	b.prevJoypadLo = cur
}

// AttachCartridge installs the cartridge that backs 0x0000-0x7FFF and
// 0xA000-0xBFFF.
func (b *Bus) AttachCartridge(c cart.Cartridge) { b.cart = c }

// AttachPPU installs the PPU that backs 0xFF40-0xFF4B.
func (b *Bus) AttachPPU(p PPU) { b.ppu = p }

// SetJoypadProvider installs the platform-owned button state reference.
func (b *Bus) SetJoypadProvider(p JoypadProvider) {
	if p == nil {
		p = nullJoypad{}
	}
	b.joypad = p
}

// SetSerialWriter installs an optional sink for bytes written to SB
// (0xFF01) while SC (0xFF02) requests an internal-clock transfer. No
// transfer timing is modeled (an explicit Non-goal); this exists purely so
// blargg-style test ROMs can report pass/fail over "serial".
func (b *Bus) SetSerialWriter(w io.Writer) { b.serialWriter = w }

// SetBootROM installs a boot ROM overlay for 0x0000-0x00FF, active until a
// non-zero write to 0xFF50 disables it.
func (b *Bus) SetBootROM(rom []byte) {
	b.bootROM = rom
	b.bootEnabled = rom != nil
}

// seedPostBootIO seeds the DMG default I/O register bytes gb_context_reset
// leaves behind when skipping the boot ROM. Reset(true) calls this;
// Reset(false) leaves the IO block zeroed instead, since the boot ROM itself
// programs it.
func (b *Bus) seedPostBootIO() {
	defaults := map[uint16]byte{
		0xFF00: 0xCF,
		0xFF01: 0x00,
		0xFF02: 0x7E,
		0xFF04: 0xAB,
		0xFF05: 0x00,
		0xFF06: 0x00,
		0xFF07: 0xF8,
		0xFF0F: 0xE1,
		0xFF10: 0x80,
		0xFF11: 0xBF,
		0xFF12: 0xF3,
		0xFF14: 0xBF,
		0xFF16: 0x3F,
		0xFF19: 0xBF,
		0xFF1A: 0x7F,
		0xFF1B: 0xFF,
		0xFF1C: 0x9F,
		0xFF1E: 0xBF,
		0xFF20: 0xFF,
		0xFF23: 0xBF,
		0xFF24: 0x77,
		0xFF25: 0xF3,
		0xFF26: 0xF1,
		0xFF40: 0x91,
		0xFF41: 0x85,
		0xFF42: 0x00,
		0xFF43: 0x00,
		0xFF45: 0x00,
		0xFF47: 0xFC,
		0xFF48: 0xFF,
		0xFF49: 0xFF,
		0xFF4A: 0x00,
		0xFF4B: 0x00,
		0xFFFF: 0x00,
	}
	for addr, v := range defaults {
		b.rawWrite(addr, v)
	}
}

// Reset clears the I/O block and, when skipBoot is true, seeds the full
// post-boot DMG I/O register table (§"SUPPLEMENTED FEATURES"), matching
// hardware state at PC=0x0100 when no boot ROM runs. skipBoot also selects whether a previously installed boot ROM overlay stays
// active (false) or is bypassed outright (true).
func (b *Bus) Reset(skipBoot bool) {
	for i := range b.io {
		b.io[i] = 0
	}
	b.vramBank = 0
	b.wramBank = 1
	b.bootEnabled = !skipBoot && b.bootROM != nil
	if skipBoot {
		b.seedPostBootIO()
	}
}

func (b *Bus) rawWrite(addr uint16, v byte) {
	if addr == 0xFFFF {
		b.io[ieIndex] = v
		return
	}
	b.io[addr-0xFF00] = v
}

// Read8 implements the exhaustive address decode from spec §4.1.
func (b *Bus) Read8(addr uint16) byte {
	switch {
	case addr <= 0x00FF && b.bootEnabled:
		return b.bootROM[addr]
	case addr <= 0x7FFF:
		return b.cartRead(addr)
	case addr <= 0x9FFF:
		return b.vram[int(b.vramBank)*vramBankSize+int(addr-0x8000)]
	case addr <= 0xBFFF:
		return b.cartRead(addr)
	case addr <= 0xCFFF:
		return b.wram[addr-0xC000]
	case addr <= 0xDFFF:
		return b.wram[int(b.effectiveWRAMBank())*wramBankSize+int(addr-0xD000)]
	case addr <= 0xFDFF:
		return b.Read8(addr - 0x2000)
	case addr <= 0xFE9F:
		return b.oam[addr-0xFE00]
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.readJoypad()
	case addr >= 0xFF40 && addr <= 0xFF4B:
		if b.ppu != nil {
			return b.ppu.ReadRegister(addr)
		}
		return 0xFF
	case addr <= 0xFF7F:
		return b.io[addr-0xFF00]
	case addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	default: // 0xFFFF
		return b.io[ieIndex]
	}
}

// Write8 implements the exhaustive address decode from spec §4.1.
func (b *Bus) Write8(addr uint16, v byte) {
	switch {
	case addr <= 0x7FFF:
		b.cartWrite(addr, v)
	case addr <= 0x9FFF:
		b.vram[int(b.vramBank)*vramBankSize+int(addr-0x8000)] = v
	case addr <= 0xBFFF:
		b.cartWrite(addr, v)
	case addr <= 0xCFFF:
		b.wram[addr-0xC000] = v
	case addr <= 0xDFFF:
		b.wram[int(b.effectiveWRAMBank())*wramBankSize+int(addr-0xD000)] = v
	case addr <= 0xFDFF:
		b.Write8(addr-0x2000, v)
	case addr <= 0xFE9F:
		b.oam[addr-0xFE00] = v
	case addr <= 0xFEFF:
		// Unusable range: writes dropped.
	case addr == 0xFF00:
		b.writeJoypad(v)
	case addr == 0xFF46:
		b.io[addr-0xFF00] = v
		b.runOAMDMA(v)
	case addr == 0xFF02:
		b.io[addr-0xFF00] = v
		b.maybeFlushSerial(v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		if b.ppu != nil {
			b.ppu.WriteRegister(addr, v)
		}
	case addr == 0xFF50:
		if v != 0 {
			b.bootEnabled = false
		}
	case addr <= 0xFF7F:
		b.io[addr-0xFF00] = v
	case addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	default: // 0xFFFF
		b.io[ieIndex] = v
	}
}

func (b *Bus) cartRead(addr uint16) byte {
	if b.cart == nil {
		return 0xFF
	}
	return b.cart.Read(addr)
}

func (b *Bus) cartWrite(addr uint16, v byte) {
	if b.cart == nil {
		return
	}
	b.cart.Write(addr, v)
}

// effectiveWRAMBank applies the 0->1 wrap from spec §3.
func (b *Bus) effectiveWRAMBank() byte {
	if b.wramBank == 0 {
		return 1
	}
	return b.wramBank
}

// runOAMDMA copies 160 bytes from page*0x100 into OAM. Real hardware
// performs this over 160 M-cycles with bus-conflict side effects; spec's
// Non-goals explicitly exclude accurate OAM-DMA conflict timing, so this
// executes the transfer instantaneously.
func (b *Bus) runOAMDMA(page byte) {
	src := uint16(page) << 8
	for i := 0; i < oamSize; i++ {
		b.oam[i] = b.Read8(src + uint16(i))
	}
	if b.dmaDebug {
		log.Printf("bus: OAM DMA from page 0x%02X", page)
	}
}

func (b *Bus) maybeFlushSerial(sc byte) {
	if b.serialWriter == nil {
		return
	}
	const transferRequestedInternalClock = 0x81
	if sc == transferRequestedInternalClock {
		sb := b.io[0xFF01-0xFF00]
		b.serialWriter.Write([]byte{sb})
	}
}

func (b *Bus) readJoypad() byte {
	raw := b.io[0]
	selDPad := raw&0x10 != 0
	selButtons := raw&0x20 != 0

	var low byte
	switch {
	case selDPad && selButtons:
		low = (b.joypad.DPad() & 0x0F) & (b.joypad.Buttons() & 0x0F)
	case selDPad:
		low = b.joypad.DPad() & 0x0F
	case selButtons:
		low = b.joypad.Buttons() & 0x0F
	default:
		low = 0x0F
	}

	return 0xF0 | low
}

func (b *Bus) writeJoypad(v byte) {
	b.io[0] = v
}

// Read16/Write16 are little-endian (low byte first), per spec §4.1.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write8(addr, byte(v))
	b.Write8(addr+1, byte(v>>8))
}

// Push16 decrements sp by 2, writes v there, and returns the new sp.
func (b *Bus) Push16(sp uint16, v uint16) uint16 {
	sp -= 2
	b.Write16(sp, v)
	return sp
}

// Pop16 reads the word at sp and returns it along with sp+2.
func (b *Bus) Pop16(sp uint16) (uint16, uint16) {
	v := b.Read16(sp)
	return v, sp + 2
}
