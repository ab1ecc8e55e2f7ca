// Package cart implements the cartridge side of the memory map: header
// parsing and the MBC register writes that remap ROM/RAM banks. The bus
// delegates the whole 0x0000-0x7FFF and 0xA000-0xBFFF ranges here; it has
// no knowledge of any particular mapper's register layout.
package cart

import "fmt"

// Cartridge is the capability the bus needs: address-routed reads and
// writes over its own ROM bank window and RAM bank window. Persistence
// (battery-backed RAM, RTC state) is explicitly out of scope; this module
// only emulates the banking logic.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
}

// NewCartridge parses rom's header and constructs the matching mapper.
// MBC1 is the only mapper spec.md contractually requires; MBC3 and MBC5
// are implemented as enrichment (Open Question 5 leaves them unspecified,
// not excluded), without RTC support in the MBC3 case.
func NewCartridge(rom []byte) (Cartridge, error) {
	hdr, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	switch hdr.MBCType {
	case TypeROMOnly:
		return newROMOnly(rom), nil
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBatt:
		return newMBC1(rom, hdr), nil
	case TypeMBC2, TypeMBC2Batt:
		return newMBC1(rom, hdr), nil // MBC2 banking is a strict subset of MBC1's
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBatt, TypeMBC3RAMBatt2, TypeMBC3TimerBat, TypeMBC3TimerRAM:
		return newMBC3(rom, hdr), nil
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBatt, TypeMBC5Rumble, TypeMBC5RumbleR, TypeMBC5RumbleRB:
		return newMBC5(rom, hdr), nil
	default:
		return nil, fmt.Errorf("cart: unsupported MBC type 0x%02X", hdr.MBCType)
	}
}
