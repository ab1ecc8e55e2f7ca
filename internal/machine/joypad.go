package machine

// Button identifies one of the eight DMG inputs.
type Button int

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// JoypadState is the default bus.JoypadProvider implementation: a plain
// active-low bitset a platform backend updates from its own input polling.
// This is the "borrowed reference to a platform state object" option the
// design notes call out as the replacement for the source's process-global
// joypad variables.
type JoypadState struct {
	dpad    byte
	buttons byte
}

// NewJoypadState returns an idle state (no buttons held).
func NewJoypadState() *JoypadState {
	return &JoypadState{dpad: 0x0F, buttons: 0x0F}
}

func (j *JoypadState) DPad() byte    { return j.dpad }
func (j *JoypadState) Buttons() byte { return j.buttons }

// SetPressed updates a single button's state.
func (j *JoypadState) SetPressed(b Button, pressed bool) {
	var bits *byte
	var mask byte

	switch b {
	case ButtonRight:
		bits, mask = &j.dpad, 0x01
	case ButtonLeft:
		bits, mask = &j.dpad, 0x02
	case ButtonUp:
		bits, mask = &j.dpad, 0x04
	case ButtonDown:
		bits, mask = &j.dpad, 0x08
	case ButtonA:
		bits, mask = &j.buttons, 0x01
	case ButtonB:
		bits, mask = &j.buttons, 0x02
	case ButtonSelect:
		bits, mask = &j.buttons, 0x04
	case ButtonStart:
		bits, mask = &j.buttons, 0x08
	default:
		return
	}

	if pressed {
		*bits &^= mask
	} else {
		*bits |= mask
	}
}
