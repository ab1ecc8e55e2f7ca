package cart

import "fmt"

// MBC type byte values (header offset 0x147), limited to the ones this
// module dispatches on. Unlisted values fall through to NewCartridge's
// error path.
const (
	TypeROMOnly      byte = 0x00
	TypeMBC1         byte = 0x01
	TypeMBC1RAM      byte = 0x02
	TypeMBC1RAMBatt  byte = 0x03
	TypeMBC2         byte = 0x05
	TypeMBC2Batt     byte = 0x06
	TypeMBC3RAMBatt2 byte = 0x0D
	TypeMBC3         byte = 0x11
	TypeMBC3RAM      byte = 0x12
	TypeMBC3RAMBatt  byte = 0x13
	TypeMBC3TimerBat byte = 0x0F
	TypeMBC3TimerRAM byte = 0x10
	TypeMBC5         byte = 0x19
	TypeMBC5RAM      byte = 0x1A
	TypeMBC5RAMBatt  byte = 0x1B
	TypeMBC5Rumble   byte = 0x1C
	TypeMBC5RumbleR  byte = 0x1D
	TypeMBC5RumbleRB byte = 0x1E
)

const (
	headerMBCType  = 0x0147
	headerRAMSize  = 0x0149
	headerMinLen   = 0x0150
	mbc2RAMBytes   = 512
)

// Header holds the subset of the cartridge header this module consumes:
// the MBC type and RAM size bytes (spec §6's "ROM header consumption").
// Everything else in the 0x0100-0x014F header range (title, logo, checksum)
// is out of scope.
type Header struct {
	MBCType  byte
	RAMBytes int
}

// ramSizeTable maps header byte 0x149 to a RAM size in bytes, per spec §6.
var ramSizeTable = map[byte]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// ParseHeader reads the MBC type and RAM size bytes out of rom. It returns
// an error only if rom is too short to contain a header; unknown RAM-size
// codes decode to 0 rather than erroring, matching the "never fatal" error
// taxonomy for data that is merely unusual, not absent.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < headerMinLen {
		return Header{}, fmt.Errorf("cart: ROM too short to contain a header (%d bytes)", len(rom))
	}

	h := Header{MBCType: rom[headerMBCType]}

	switch h.MBCType {
	case TypeMBC2, TypeMBC2Batt:
		h.RAMBytes = mbc2RAMBytes
	default:
		h.RAMBytes = ramSizeTable[rom[headerRAMSize]]
	}

	return h, nil
}
