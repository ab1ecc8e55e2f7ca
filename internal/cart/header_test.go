package cart

import "testing"

func buildROM(mbcType byte, ramSizeCode byte) []byte {
	rom := make([]byte, 0x8000)
	rom[headerMBCType] = mbcType
	rom[headerRAMSize] = ramSizeCode
	return rom
}

func TestParseHeaderRAMSizeTable(t *testing.T) {
	cases := []struct {
		code byte
		want int
	}{
		{0x00, 0},
		{0x01, 2 * 1024},
		{0x02, 8 * 1024},
		{0x03, 32 * 1024},
		{0x04, 128 * 1024},
		{0x05, 64 * 1024},
	}

	for _, c := range cases {
		rom := buildROM(TypeMBC1, c.code)
		hdr, err := ParseHeader(rom)
		if err != nil {
			t.Fatalf("ParseHeader: %v", err)
		}
		if hdr.RAMBytes != c.want {
			t.Fatalf("code 0x%02X: got %d bytes, want %d", c.code, hdr.RAMBytes, c.want)
		}
	}
}

func TestParseHeaderMBC2OverridesRAMSize(t *testing.T) {
	rom := buildROM(TypeMBC2, 0x03) // header says 32K, MBC2 always overrides to 512B
	hdr, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.RAMBytes != mbc2RAMBytes {
		t.Fatalf("got %d bytes, want %d", hdr.RAMBytes, mbc2RAMBytes)
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 0x10)); err == nil {
		t.Fatalf("expected error for truncated ROM")
	}
}

func TestNewCartridgeUnknownType(t *testing.T) {
	rom := buildROM(0xFE, 0x00)
	if _, err := NewCartridge(rom); err == nil {
		t.Fatalf("expected error for unsupported MBC type")
	}
}
