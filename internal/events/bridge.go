// Package events implements the bridge between interrupt context and task
// context: a fixed-capacity, wait-free ring buffer of decoded key events.
//
// The producer side (the keyboard interrupt path) and the consumer side (any
// polling task) never block and never share a lock, so a producer firing while
// a consumer is mid-operation cannot deadlock either side.
package events

import (
	"sync/atomic"
)

// DefaultCapacity is the event capacity used when none is configured.
const DefaultCapacity = 100

// Code identifies a named non-printable key.
type Code uint8

const (
	// CodeNone marks an event carrying a printable rune instead of a code.
	CodeNone Code = iota

	// CodeEnter is the Return/Enter key.
	CodeEnter

	// CodeBackspace is the Backspace key.
	CodeBackspace

	// CodeEscape is the Escape key.
	CodeEscape
)

// State is the press/release state of a key event.
type State uint8

const (
	// StateDown marks a key press.
	StateDown State = iota

	// StateUp marks a key release.
	StateUp
)

// KeyEvent is one decoded keyboard event. It is an immutable value: either a
// printable Rune (Code == CodeNone) or a named key (Rune == 0).
type KeyEvent struct {
	Rune  rune
	Code  Code
	State State
}

// Rune returns a pressed printable-character event.
func Rune(r rune) KeyEvent {
	return KeyEvent{Rune: r}
}

// Key returns a pressed named-key event.
func Key(c Code) KeyEvent {
	return KeyEvent{Code: c}
}

// Bridge is a fixed-capacity single-producer/single-consumer ring buffer of
// [KeyEvent]. Push and Pop are wait-free: neither spins nor acquires a lock,
// which makes Push safe from interrupt context while a consumer is suspended
// mid-Pop.
type Bridge struct {
	buf  []KeyEvent
	head atomic.Uint64
	tail atomic.Uint64
}

// NewBridge returns a pointer to a new [Bridge] with the given fixed capacity.
// Capacities < 1 fall back to [DefaultCapacity]. The capacity is never resized.
func NewBridge(capacity int) *Bridge {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &Bridge{
		buf: make([]KeyEvent, capacity),
	}
}

// Push attempts to insert an event at the tail of the buffer. It returns false
// and drops the event when the buffer is full; existing contents and their
// order are never altered. Only the producer side may call Push.
func (b *Bridge) Push(ev KeyEvent) bool {
	head := b.head.Load()
	tail := b.tail.Load()

	if tail-head == uint64(len(b.buf)) {
		return false
	}

	b.buf[tail%uint64(len(b.buf))] = ev
	b.tail.Store(tail + 1)

	return true
}

// Pop removes and returns the event at the head of the buffer, in the exact
// order pushed. It returns false when the buffer is empty. Only the consumer
// side may call Pop.
func (b *Bridge) Pop() (KeyEvent, bool) {
	head := b.head.Load()
	tail := b.tail.Load()

	if head == tail {
		return KeyEvent{}, false
	}

	ev := b.buf[head%uint64(len(b.buf))]
	b.head.Store(head + 1)

	return ev, true
}

// Len returns the number of buffered events.
func (b *Bridge) Len() int {
	return int(b.tail.Load() - b.head.Load())
}

// Cap returns the fixed capacity of the buffer.
func (b *Bridge) Cap() int {
	return len(b.buf)
}
