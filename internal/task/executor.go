package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultParkInterval is the fallback park duration standing in for the
// periodic timer interrupt that would end a processor halt on real hardware.
const DefaultParkInterval = 5 * time.Millisecond

// Executor is a single-threaded cooperative scheduler. It owns a FIFO ready
// queue of tasks, advances each once per sweep and parks between sweeps until
// woken. Created once at startup and never torn down.
type Executor struct {
	sync.Mutex
	queue        []*Task
	nextID       uint64
	wake         chan struct{}
	parkInterval time.Duration
}

// NewExecutor returns a pointer to a new [Executor]. Park intervals < 1 fall
// back to [DefaultParkInterval].
func NewExecutor(parkInterval time.Duration) *Executor {
	if parkInterval < 1 {
		parkInterval = DefaultParkInterval
	}

	return &Executor{
		wake:         make(chan struct{}, 1),
		parkInterval: parkInterval,
	}
}

// Spawn wraps a future into a new task and enqueues it at the tail of the
// ready queue. It is fire-and-forget: there is no handle, no cancellation and
// no deadline; the task runs until it reports Ready.
func (e *Executor) Spawn(f Future) {
	e.Lock()
	defer e.Unlock()

	e.nextID++
	e.queue = append(e.queue, &Task{id: e.nextID, future: f})
}

// Wake ends the current (or skips the next) park. It never blocks and is safe
// to call from the interrupt side.
func (e *Executor) Wake() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// TaskCount returns the number of tasks currently in the ready queue.
func (e *Executor) TaskCount() int {
	e.Lock()
	defer e.Unlock()

	return len(e.queue)
}

// Run drives the ready queue until the context is cancelled: it sweeps the
// queue, then parks until the next wake-up, timer tick or cancellation. An
// error is only returned on context cancellation.
func (e *Executor) Run(ctx context.Context) error {
	slog.Info("Executor running.", "parkInterval", e.parkInterval)

	for {
		if ctx.Err() != nil {
			return fmt.Errorf("(task-executor) %w", ctx.Err())
		}

		e.Sweep()
		e.park(ctx)
	}
}

// Sweep resumes exactly the tasks that were ready when the sweep started:
// each is polled once, dropped when Ready and re-enqueued at the tail when
// Pending. Bounding the sweep to the pre-sweep count means a task that yields
// and re-enqueues cannot be resumed twice before its siblings ran once.
func (e *Executor) Sweep() {
	e.Lock()
	remaining := len(e.queue)
	e.Unlock()

	for i := 0; i < remaining; i++ {
		t, ok := e.dequeue()
		if !ok {
			break
		}

		if t.future.Poll() == Pending {
			e.enqueue(t)
		}
	}
}

func (e *Executor) dequeue() (*Task, bool) {
	e.Lock()
	defer e.Unlock()

	if len(e.queue) == 0 {
		return nil, false
	}

	t := e.queue[0]
	e.queue = e.queue[1:]

	return t, true
}

func (e *Executor) enqueue(t *Task) {
	e.Lock()
	defer e.Unlock()

	e.queue = append(e.queue, t)
}

func (e *Executor) park(ctx context.Context) {
	timer := time.NewTimer(e.parkInterval)
	defer timer.Stop()

	select {
	case <-e.wake:
	case <-timer.C:
	case <-ctx.Done():
	}
}
