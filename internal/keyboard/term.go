package keyboard

import (
	"github.com/jorgeandrecastro/jcos/internal/events"
)

const (
	termEscape    = 0x1B
	termBackspace = 0x08
	termDelete    = 0x7F
	termCSIOpen   = '['
)

// TermDecoder decodes raw-mode terminal bytes into key events, for running
// the kernel against a real TTY instead of a PS/2 controller. It swallows CSI
// escape sequences (arrow keys and the like) so they never reach the shell as
// stray printable characters.
//
// A lone 0x1B is ambiguous until the next byte (or end of read burst) shows
// whether it opens a sequence; [TermDecoder.Flush] resolves the pending state.
type TermDecoder struct {
	escPending bool
	inCSI      bool
}

// NewTermDecoder returns a pointer to a new [TermDecoder].
func NewTermDecoder() *TermDecoder {
	return &TermDecoder{}
}

// Feed decodes one raw byte, returning zero or one key event. Terminals only
// report presses, so every surfaced event is a key-down.
func (d *TermDecoder) Feed(b byte) (events.KeyEvent, bool) {
	if d.inCSI {
		// CSI sequences end with a byte in the 0x40-0x7E final range.
		if b >= 0x40 && b <= 0x7E {
			d.inCSI = false
		}

		return events.KeyEvent{}, false
	}

	if d.escPending {
		d.escPending = false

		if b == termCSIOpen {
			d.inCSI = true

			return events.KeyEvent{}, false
		}

		// Escape followed by an unrelated byte: surface the Escape, the
		// follow-up byte is dropped.
		return events.Key(events.CodeEscape), true
	}

	switch b {
	case termEscape:
		d.escPending = true

		return events.KeyEvent{}, false

	case '\r', '\n':
		return events.Key(events.CodeEnter), true

	case termBackspace, termDelete:
		return events.Key(events.CodeBackspace), true
	}

	if b >= ' ' && b < termDelete {
		return events.Rune(rune(b)), true
	}

	return events.KeyEvent{}, false
}

// Flush resolves a pending lone Escape at the end of a read burst.
func (d *TermDecoder) Flush() (events.KeyEvent, bool) {
	if d.escPending {
		d.escPending = false

		return events.Key(events.CodeEscape), true
	}

	return events.KeyEvent{}, false
}
