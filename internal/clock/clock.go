// Package clock implements the clock display task: an infinite cooperative
// task redrawing the wall-clock time in the console's status corner.
package clock

import (
	"time"

	"github.com/jorgeandrecastro/jcos/internal/console"
	"github.com/jorgeandrecastro/jcos/internal/task"
)

const displayFormat = "15:04:05"

// Clock is a [task.Future] that redraws the time whenever the displayed
// second changes. Each poll does at most one redraw and always yields, so the
// task never starves its siblings.
type Clock struct {
	con   *console.Console
	now   func() time.Time
	shown string
}

// New returns a pointer to a new [Clock] reading from the given time source.
// A nil time source falls back to [time.Now].
func New(con *console.Console, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}

	return &Clock{con: con, now: now}
}

// Poll redraws the clock face if it changed and reports Pending forever.
func (c *Clock) Poll() task.Poll {
	face := c.now().Format(displayFormat)

	if face != c.shown {
		c.con.Status(face)
		c.shown = face
	}

	return task.Pending
}
