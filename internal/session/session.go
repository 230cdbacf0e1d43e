// Package session tracks live player connections: their outbound frame
// channels, per-player input queues and the display-name identity
// registry that makes reconnection sticky.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session is one connected player. The receive loop of the connection
// owns the input queue's producer side; the write pump drains the
// outbound channel. Everything else is immutable after creation.
type Session struct {
	// Tag uniquely identifies the connection itself, independent of the
	// player id, which can be reused across reconnects.
	Tag      string
	PlayerID int
	Name     string
	Color    string

	queue    *InputQueue
	out      chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

// NewSession creates a session with a buffered outbound channel.
func NewSession(playerID int, name, color string, outBuffer int) *Session {
	if outBuffer < 1 {
		outBuffer = 64
	}
	return &Session{
		Tag:      uuid.NewString(),
		PlayerID: playerID,
		Name:     name,
		Color:    color,
		queue:    NewInputQueue(),
		out:      make(chan []byte, outBuffer),
		done:     make(chan struct{}),
	}
}

// Queue returns the session's input queue.
func (s *Session) Queue() *InputQueue {
	return s.queue
}

// Send queues a frame for the write pump. It never blocks; when the
// buffer is full the oldest frame is dropped, since a newer state update
// supersedes a stale one anyway.
func (s *Session) Send(frame []byte) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.out <- frame:
	default:
		select {
		case <-s.out:
		default:
		}
		select {
		case s.out <- frame:
		default:
		}
	}
}

// Outbound returns the channel the write pump drains.
func (s *Session) Outbound() <-chan []byte {
	return s.out
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done. Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Registry tracks active sessions by player id. Connection goroutines
// register and unregister; the driver iterates during broadcast, so the
// map is guarded and iteration works on a snapshot copy.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int]*Session)}
}

// Register adds a session.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.PlayerID] = s
}

// TryRegister adds a session unless the registry already holds max
// sessions. Check and insert happen under one lock, so concurrent joins
// racing at capacity cannot over-admit. Replacing a session under the
// same player id never counts against the cap.
func (r *Registry) TryRegister(s *Session, max int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, replacing := r.sessions[s.PlayerID]; !replacing && len(r.sessions) >= max {
		return false
	}
	r.sessions[s.PlayerID] = s
	return true
}

// Unregister removes the session for a player id, but only if it is
// still the same session; a reconnect may already have replaced it.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[s.PlayerID]; ok && cur.Tag == s.Tag {
		delete(r.sessions, s.PlayerID)
	}
}

// Get retrieves a session by player id.
func (r *Registry) Get(playerID int) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[playerID]
	return s, ok
}

// Active reports whether a player id currently has a live session.
func (r *Registry) Active(playerID int) bool {
	_, ok := r.Get(playerID)
	return ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Each calls fn for every session on a snapshot of the registry, so
// joins and leaves can proceed while a broadcast is in flight.
func (r *Registry) Each(fn func(*Session)) {
	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		fn(s)
	}
}
