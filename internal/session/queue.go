package session

import "sync"

// InputEvent is one decoded direction request. Chat never passes through
// here; it goes straight to the broadcaster.
type InputEvent struct {
	DX, DY float64
}

// InputQueue is a per-player FIFO of pending direction events: the
// connection's receive loop appends, the driver drains it completely
// once per tick before movement. This queue is the only channel between
// connection goroutines and the simulation.
type InputQueue struct {
	mu     sync.Mutex
	events []InputEvent
}

// NewInputQueue creates an empty queue.
func NewInputQueue() *InputQueue {
	return &InputQueue{}
}

// Push appends an event.
func (q *InputQueue) Push(e InputEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Drain returns all queued events in arrival order and empties the
// queue.
func (q *InputQueue) Drain() []InputEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
