package machine

import "os"

// Config holds the runtime's debug/trace toggles and platform sizing, kept
// as a zero-value-safe struct with a Defaults() method per the teacher's
// emu.Config idiom.
type Config struct {
	Scale           int
	DebugInterrupts bool
	DebugMBC        bool
	SkipBootROM     bool
}

// Defaults fills in zero fields with their runtime defaults, reading the
// interrupt/MBC trace toggles from the environment the same way the
// teacher's bus gates its timer trace logging.
func (c Config) Defaults() Config {
	if c.Scale == 0 {
		c.Scale = 3
	}
	if os.Getenv("GBCORE_DEBUG_INT") != "" {
		c.DebugInterrupts = true
	}
	if os.Getenv("GBCORE_DEBUG_MBC") != "" {
		c.DebugMBC = true
	}
	return c
}
