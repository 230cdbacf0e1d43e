package session

import (
	"testing"
)

func TestSendNeverBlocks(t *testing.T) {
	s := NewSession(1, "Ana", "#ff0000", 2)

	// Overfill a buffer of 2; Send must return and keep the newest
	s.Send([]byte("a"))
	s.Send([]byte("b"))
	s.Send([]byte("c"))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case frame := <-s.Outbound():
			got[string(frame)] = true
		default:
			t.Fatalf("outbound drained after %d frames, want 2", i)
		}
	}
	if !got["c"] {
		t.Errorf("newest frame was dropped, kept %v", got)
	}

	select {
	case frame := <-s.Outbound():
		t.Errorf("unexpected extra frame %q", frame)
	default:
	}
}

func TestSendAfterClose(t *testing.T) {
	s := NewSession(1, "Ana", "#ff0000", 4)
	s.Close()
	s.Close() // idempotent

	s.Send([]byte("late"))
	select {
	case frame := <-s.Outbound():
		t.Errorf("frame %q queued after close", frame)
	default:
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after Close()")
	}
}

func TestInputQueueOrder(t *testing.T) {
	q := NewInputQueue()
	q.Push(InputEvent{DX: 1, DY: 0})
	q.Push(InputEvent{DX: 0, DY: 1})
	q.Push(InputEvent{DX: -1, DY: 0})

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("Drain() returned %d events, want 3", len(events))
	}
	want := []InputEvent{{DX: 1}, {DY: 1}, {DX: -1}}
	for i, e := range events {
		if e != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, e, want[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after drain, want 0", q.Len())
	}
	if extra := q.Drain(); len(extra) != 0 {
		t.Errorf("second Drain() returned %d events, want 0", len(extra))
	}
}

func TestRegistryReconnectReplacement(t *testing.T) {
	r := NewRegistry()

	old := NewSession(5, "Ana", "#ff0000", 4)
	r.Register(old)
	if !r.Active(5) {
		t.Fatal("player 5 not active after Register")
	}

	// A reconnect replaces the session under the same player id
	fresh := NewSession(5, "Ana", "#ff0000", 4)
	r.Register(fresh)
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	// The stale connection's teardown must not evict the replacement
	r.Unregister(old)
	got, ok := r.Get(5)
	if !ok {
		t.Fatal("player 5 evicted by stale Unregister")
	}
	if got.Tag != fresh.Tag {
		t.Errorf("registry holds session %s, want %s", got.Tag, fresh.Tag)
	}

	r.Unregister(fresh)
	if r.Active(5) {
		t.Error("player 5 still active after its own Unregister")
	}
}

func TestRegistryCapacity(t *testing.T) {
	r := NewRegistry()

	ana := NewSession(1, "Ana", "#ff0000", 4)
	if !r.TryRegister(ana, 1) {
		t.Fatal("TryRegister rejected the first session under a cap of 1")
	}

	// At capacity: a different player must be turned away
	if r.TryRegister(NewSession(2, "Bob", "#0000ff", 4), 1) {
		t.Error("TryRegister admitted a second player past the cap")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d after rejected admission, want 1", r.Len())
	}

	// Replacing the same player id is not an admission
	again := NewSession(1, "Ana", "#ff0000", 4)
	if !r.TryRegister(again, 1) {
		t.Error("TryRegister rejected a reconnect replacement at the cap")
	}
	got, ok := r.Get(1)
	if !ok || got.Tag != again.Tag {
		t.Error("replacement session not installed")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d after replacement, want 1", r.Len())
	}
}

func TestRegistryEachSnapshot(t *testing.T) {
	r := NewRegistry()
	for id := 1; id <= 3; id++ {
		r.Register(NewSession(id, "p", "#ffffff", 4))
	}

	seen := map[int]bool{}
	r.Each(func(s *Session) {
		seen[s.PlayerID] = true
		// Mutating during iteration must be safe
		r.Unregister(s)
	})
	if len(seen) != 3 {
		t.Errorf("Each visited %d sessions, want 3", len(seen))
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after unregistering all, want 0", r.Len())
	}
}

func TestIdentityReuseWhenInactive(t *testing.T) {
	ids, err := NewIdentities(nil)
	if err != nil {
		t.Fatalf("NewIdentities() failed: %v", err)
	}
	never := func(int) bool { return false }

	first, err := ids.Assign("Ana", never)
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	second, err := ids.Assign("Bob", never)
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	if first == second {
		t.Fatalf("distinct names share id %d", first)
	}

	// Same name, not currently connected: same id again
	again, err := ids.Assign("Ana", never)
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	if again != first {
		t.Errorf("Assign(Ana) = %d on rejoin, want %d", again, first)
	}
}

func TestIdentityFreshWhenActive(t *testing.T) {
	ids, err := NewIdentities(nil)
	if err != nil {
		t.Fatalf("NewIdentities() failed: %v", err)
	}
	never := func(int) bool { return false }

	first, err := ids.Assign("Ana", never)
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}

	// Name is taken by a live connection: a new id is minted and the
	// mapping moves to it
	taken := func(id int) bool { return id == first }
	second, err := ids.Assign("Ana", taken)
	if err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	if second == first {
		t.Fatalf("Assign reused active id %d", first)
	}
	if got, ok := ids.Lookup("Ana"); !ok || got != second {
		t.Errorf("Lookup(Ana) = %d, %v, want %d, true", got, ok, second)
	}
}
