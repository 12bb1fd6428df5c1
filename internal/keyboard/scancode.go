package keyboard

import (
	"github.com/jorgeandrecastro/jcos/internal/events"
)

const (
	scancodeBreak    = 0xF0
	scancodeExtended = 0xE0

	scancodeEscape     = 0x76
	scancodeBackspace  = 0x66
	scancodeEnter      = 0x5A
	scancodeLeftShift  = 0x12
	scancodeRightShift = 0x59
	scancodeCapsLock   = 0x58
	scancodeSpace      = 0x29
)

// scancodeMap holds the printable set-2 make codes: [0] unshifted, [1] shifted.
var scancodeMap = map[byte][2]rune{
	0x0E: {'`', '~'},
	0x16: {'1', '!'}, 0x1E: {'2', '@'}, 0x26: {'3', '#'}, 0x25: {'4', '$'},
	0x2E: {'5', '%'}, 0x36: {'6', '^'}, 0x3D: {'7', '&'}, 0x3E: {'8', '*'},
	0x46: {'9', '('}, 0x45: {'0', ')'}, 0x4E: {'-', '_'}, 0x55: {'=', '+'},
	0x15: {'q', 'Q'}, 0x1D: {'w', 'W'}, 0x24: {'e', 'E'}, 0x2D: {'r', 'R'},
	0x2C: {'t', 'T'}, 0x35: {'y', 'Y'}, 0x3C: {'u', 'U'}, 0x43: {'i', 'I'},
	0x44: {'o', 'O'}, 0x4D: {'p', 'P'}, 0x54: {'[', '{'}, 0x5B: {']', '}'},
	0x1C: {'a', 'A'}, 0x1B: {'s', 'S'}, 0x23: {'d', 'D'}, 0x2B: {'f', 'F'},
	0x34: {'g', 'G'}, 0x33: {'h', 'H'}, 0x3B: {'j', 'J'}, 0x42: {'k', 'K'},
	0x4B: {'l', 'L'}, 0x4C: {';', ':'}, 0x52: {'\'', '"'}, 0x5D: {'\\', '|'},
	0x1A: {'z', 'Z'}, 0x22: {'x', 'X'}, 0x21: {'c', 'C'}, 0x2A: {'v', 'V'},
	0x32: {'b', 'B'}, 0x31: {'n', 'N'}, 0x3A: {'m', 'M'}, 0x41: {',', '<'},
	0x49: {'.', '>'}, 0x4A: {'/', '?'}, scancodeSpace: {' ', ' '},
}

// ScancodeDecoder is a stateful scancode set-2 decoder for a US layout. Break
// codes are 0xF0-prefixed, so no make or break byte ever collides with the
// controller protocol bytes filtered ahead of the decoder. It must be fed
// every raw byte, releases included, since a Shift release has to clear the
// modifier state even though release events are never surfaced to the shell.
type ScancodeDecoder struct {
	breakPending bool
	extended     bool
	leftShift    bool
	rightShift   bool
	capsLock     bool
}

// NewScancodeDecoder returns a pointer to a new [ScancodeDecoder].
func NewScancodeDecoder() *ScancodeDecoder {
	return &ScancodeDecoder{}
}

// Feed decodes one raw byte, returning zero or one key event.
func (d *ScancodeDecoder) Feed(b byte) (events.KeyEvent, bool) {
	switch b {
	case scancodeExtended:
		d.extended = true

		return events.KeyEvent{}, false

	case scancodeBreak:
		d.breakPending = true

		return events.KeyEvent{}, false
	}

	released := d.breakPending
	d.breakPending = false

	if d.extended {
		// Extended keys (arrows, keypad) carry no shell meaning here.
		d.extended = false

		return events.KeyEvent{}, false
	}

	state := events.StateDown
	if released {
		state = events.StateUp
	}

	switch b {
	case scancodeLeftShift:
		d.leftShift = !released

		return events.KeyEvent{}, false

	case scancodeRightShift:
		d.rightShift = !released

		return events.KeyEvent{}, false

	case scancodeCapsLock:
		if !released {
			d.capsLock = !d.capsLock
		}

		return events.KeyEvent{}, false

	case scancodeEnter:
		return events.KeyEvent{Code: events.CodeEnter, State: state}, true

	case scancodeBackspace:
		return events.KeyEvent{Code: events.CodeBackspace, State: state}, true

	case scancodeEscape:
		return events.KeyEvent{Code: events.CodeEscape, State: state}, true
	}

	runes, ok := scancodeMap[b]
	if !ok {
		return events.KeyEvent{}, false
	}

	r := runes[0]
	if d.shifted(r) {
		r = runes[1]
	}

	return events.KeyEvent{Rune: r, State: state}, true
}

// shifted resolves the effective shift level: caps lock only affects letters,
// and shift inverts it.
func (d *ScancodeDecoder) shifted(unshifted rune) bool {
	shift := d.leftShift || d.rightShift

	if unshifted >= 'a' && unshifted <= 'z' {
		return shift != d.capsLock
	}

	return shift
}
