package ppu

import "testing"

type testBus struct {
	ifReg byte
}

func (b *testBus) Read8(addr uint16) byte {
	if addr == 0xFF0F {
		return b.ifReg
	}
	return 0xFF
}

func (b *testBus) Write8(addr uint16, v byte) {
	if addr == 0xFF0F {
		b.ifReg = v
	}
}

func TestFrameReadyFiresAtVBlankStart(t *testing.T) {
	p := New()
	bus := &testBus{}

	total := 0
	for !p.FrameReady() {
		p.Tick(4, bus)
		total += 4
	}

	// VBlank begins at line 144 (144 * 456 dots); the remaining 10 lines of
	// VBlank elapse afterward as part of the same 70,224-cycle frame.
	want := ScreenHeight * dotsPerLine
	if total != want {
		t.Fatalf("cycles to first frame-ready = %d, want %d", total, want)
	}
}

func TestVBlankRequestsInterrupt(t *testing.T) {
	p := New()
	bus := &testBus{}

	for !p.FrameReady() {
		p.Tick(4, bus)
	}

	if bus.ifReg&0x01 == 0 {
		t.Fatalf("expected VBlank bit set in IF after frame-ready")
	}
}

func TestLYWrapsAtEndOfFrame(t *testing.T) {
	p := New()
	bus := &testBus{}

	for i := 0; i < linesPerFrame; i++ {
		p.Tick(dotsPerLine, bus)
	}

	if p.ly != 0 {
		t.Fatalf("LY after a full frame = %d, want 0", p.ly)
	}
}
