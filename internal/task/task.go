// Package task implements the cooperative execution substrate: resumable
// units of work and the single-threaded round-robin executor that drives them.
package task

// Poll is the result of resuming a [Future] once.
type Poll uint8

const (
	// Pending signals the future has more work and wants to be resumed again.
	Pending Poll = iota

	// Ready signals the future has completed. A Ready future must never be
	// polled again; the executor guarantees this by dropping it.
	Ready
)

// Future is a resumable computation. Each call to Poll advances it by at most
// one unit of visible work and reports whether it has completed.
type Future interface {
	Poll() Poll
}

// FutureFunc adapts a plain function to the [Future] interface.
type FutureFunc func() Poll

// Poll calls the wrapped function.
func (f FutureFunc) Poll() Poll {
	return f()
}

// Task is a uniquely identified unit of work owned by the executor's ready
// queue while pending. It is never shared: ownership transfers back into the
// queue after every suspension and the task is dropped on completion.
type Task struct {
	id     uint64
	future Future
}

// ID returns the opaque, monotonically increasing task identifier.
func (t *Task) ID() uint64 {
	return t.id
}

type yieldNow struct {
	yielded bool
}

func (y *yieldNow) Poll() Poll {
	if y.yielded {
		return Ready
	}
	y.yielded = true

	return Pending
}

// YieldNow returns a [Future] that reports Pending on its first poll and Ready
// on its second. Looping computations await one per iteration so that every
// other ready task gets at least one resumption between two of their own.
func YieldNow() Future {
	return &yieldNow{}
}
