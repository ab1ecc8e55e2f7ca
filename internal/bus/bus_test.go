package bus

import (
	"testing"

	"github.com/dmgcore/runtime/internal/cart"
)

func buildMBC1ROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	rom[0x0147] = cart.TypeMBC1RAM
	rom[0x0149] = 0x02 // 8K
	for i := 0; i < banks; i++ {
		rom[i*0x4000] = byte(i)
	}
	return rom
}

func newTestBus(t *testing.T, banks int) *Bus {
	t.Helper()
	c, err := cart.NewCartridge(buildMBC1ROM(banks))
	if err != nil {
		t.Fatalf("NewCartridge: %v", err)
	}
	b := New()
	b.AttachCartridge(c)
	b.Reset(true)
	return b
}

func TestWRAMRoundTrip(t *testing.T) {
	b := newTestBus(t, 2)
	b.Write8(0xC010, 0x42)
	if got := b.Read8(0xC010); got != 0x42 {
		t.Fatalf("WRAM bank 0 round trip: got 0x%02X, want 0x42", got)
	}
	b.Write8(0xD010, 0x77)
	if got := b.Read8(0xD010); got != 0x77 {
		t.Fatalf("WRAM bank N round trip: got 0x%02X, want 0x77", got)
	}
}

func TestHRAMRoundTrip(t *testing.T) {
	b := newTestBus(t, 2)
	b.Write8(0xFF90, 0x55)
	if got := b.Read8(0xFF90); got != 0x55 {
		t.Fatalf("HRAM round trip: got 0x%02X, want 0x55", got)
	}
}

func TestOAMRoundTrip(t *testing.T) {
	b := newTestBus(t, 2)
	b.Write8(0xFE10, 0x99)
	if got := b.Read8(0xFE10); got != 0x99 {
		t.Fatalf("OAM round trip: got 0x%02X, want 0x99", got)
	}
}

func TestUnusableRangeReadsFF(t *testing.T) {
	b := newTestBus(t, 2)
	b.Write8(0xFEA0, 0x11)
	if got := b.Read8(0xFEA0); got != 0xFF {
		t.Fatalf("unusable range: got 0x%02X, want 0xFF", got)
	}
}

func TestEchoRAMMirror(t *testing.T) {
	b := newTestBus(t, 2)
	b.Write8(0xC123, 0xAB)
	if got := b.Read8(0xE123); got != 0xAB {
		t.Fatalf("echo read: got 0x%02X, want 0xAB", got)
	}
	b.Write8(0xE456, 0xCD)
	if got := b.Read8(0xC456); got != 0xCD {
		t.Fatalf("echo write: got 0x%02X, want 0xCD", got)
	}
}

func TestROMBankCoercion(t *testing.T) {
	b := newTestBus(t, 8)
	b.Write8(0x2000, 5)
	if got := b.Read8(0x4000); got != 5 {
		t.Fatalf("bank 5: got %d, want 5", got)
	}
	b.Write8(0x2000, 0)
	if got := b.Read8(0x4000); got != 1 {
		t.Fatalf("bank 0 coerces to 1: got %d, want 1", got)
	}
}

func TestERAMEnableGate(t *testing.T) {
	b := newTestBus(t, 2)
	b.Write8(0x0000, 0x0A)
	b.Write8(0xA000, 0x42)
	if got := b.Read8(0xA000); got != 0x42 {
		t.Fatalf("enabled ERAM: got 0x%02X, want 0x42", got)
	}
	b.Write8(0x0000, 0x00)
	b.Write8(0xA000, 0x99)
	if got := b.Read8(0xA000); got != 0xFF {
		t.Fatalf("disabled ERAM should read 0xFF, got 0x%02X", got)
	}
}

func TestPush16Pop16(t *testing.T) {
	b := newTestBus(t, 2)
	sp := uint16(0xFFFE)
	newSP := b.Push16(sp, 0x1234)
	if newSP != sp-2 {
		t.Fatalf("Push16: SP = 0x%04X, want 0x%04X", newSP, sp-2)
	}
	v, restored := b.Pop16(newSP)
	if v != 0x1234 {
		t.Fatalf("Pop16: got 0x%04X, want 0x1234", v)
	}
	if restored != sp {
		t.Fatalf("SP not restored: got 0x%04X, want 0x%04X", restored, sp)
	}
}

type fakeJoypad struct{ dpad, buttons byte }

func (f fakeJoypad) DPad() byte    { return f.dpad }
func (f fakeJoypad) Buttons() byte { return f.buttons }

func TestJoypadSelectAndMerge(t *testing.T) {
	b := newTestBus(t, 2)
	b.SetJoypadProvider(fakeJoypad{dpad: 0xFE, buttons: 0xF7})

	b.Write8(0xFF00, 0x10) // select direction
	if got := b.Read8(0xFF00) & 0x0F; got != 0x0E {
		t.Fatalf("dpad select: low nibble = 0x%X, want 0xE", got)
	}

	b.Write8(0xFF00, 0x20) // select buttons
	if got := b.Read8(0xFF00) & 0x0F; got != 0x07 {
		t.Fatalf("button select: low nibble = 0x%X, want 0x7", got)
	}
}

func TestOAMDMATransfersFromSourcePage(t *testing.T) {
	b := newTestBus(t, 2)
	for i := 0; i < 0xA0; i++ {
		b.Write8(0xC000+uint16(i), byte(i))
	}
	b.Write8(0xFF46, 0xC0)
	for i := 0; i < 0xA0; i++ {
		if got := b.Read8(0xFE00 + uint16(i)); got != byte(i) {
			t.Fatalf("OAM[%d] = 0x%02X, want 0x%02X", i, got, byte(i))
		}
	}
}
