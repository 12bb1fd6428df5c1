// Package keyboard implements the interrupt-side keyboard path: stateful
// byte-to-keyevent decoders and the controller gluing them to the event
// bridge and the executor wake-up.
package keyboard

import (
	"log/slog"

	"github.com/jorgeandrecastro/jcos/internal/events"
)

// PS/2 controller protocol bytes that must never reach the decoder.
const (
	protoSelfTest = 0xAA
	protoAck      = 0xFA
	protoResend   = 0xFE
)

// Decoder turns raw input bytes into decoded key events. Implementations are
// stateful across calls (modifier keys, escape sequences) and must therefore
// be fed every byte, releases included.
type Decoder interface {
	Feed(b byte) (events.KeyEvent, bool)
}

type flusher interface {
	Flush() (events.KeyEvent, bool)
}

// Waker ends a parked executor's wait; it must never block.
type Waker interface {
	Wake()
}

// Controller is the interrupt-context half of the keyboard path. HandleByte
// runs inside the (simulated) interrupt handler: it filters protocol bytes,
// feeds the decoder, pushes key presses onto the bridge and wakes the
// executor. Its duration is bounded and independent of any shell work.
type Controller struct {
	dec    Decoder
	bridge *events.Bridge
	waker  Waker
}

// NewController returns a pointer to a new [Controller].
func NewController(dec Decoder, bridge *events.Bridge, waker Waker) *Controller {
	return &Controller{
		dec:    dec,
		bridge: bridge,
		waker:  waker,
	}
}

// HandleByte processes one raw byte from the input source. Protocol
// acknowledgment bytes are dropped before the decoder; everything else is fed
// to it (releases keep the modifier state honest), but only key presses are
// pushed to the bridge. A full bridge drops the event silently.
func (c *Controller) HandleByte(b byte) {
	switch b {
	case protoAck, protoResend, protoSelfTest, 0x00:
		return
	}

	ev, ok := c.dec.Feed(b)
	c.deliver(ev, ok)
}

// Flush resolves any byte sequence left pending in the decoder at the end of
// a read burst.
func (c *Controller) Flush() {
	f, ok := c.dec.(flusher)
	if !ok {
		return
	}

	ev, pending := f.Flush()
	c.deliver(ev, pending)
}

func (c *Controller) deliver(ev events.KeyEvent, ok bool) {
	if !ok || ev.State != events.StateDown {
		c.waker.Wake()

		return
	}

	if !c.bridge.Push(ev) {
		slog.Debug("Dropped key event: bridge full.")
	}

	c.waker.Wake()
}
