package session

import (
	"sync"

	"github.com/RishithSahu/FunSnakes/internal/storage"
)

// Identities maps display names to their last-assigned player id for the
// lifetime of the process. Entries are overwritten, never deleted, which
// lets a player who disconnects and rejoins under the same name resume
// their id when it is free. With a store attached, mappings survive
// restarts.
//
// Reconnection is keyed purely on the display name, with no secret: any
// client can claim a name's id and progress. Known weakness, kept as
// designed.
type Identities struct {
	mu     sync.Mutex
	byName map[string]int
	nextID int
	store  *storage.Store
}

// NewIdentities creates the registry, warmed from the store when one is
// given. Allocation continues above the highest persisted id.
func NewIdentities(store *storage.Store) (*Identities, error) {
	ids := &Identities{
		byName: make(map[string]int),
		nextID: 1,
		store:  store,
	}
	if store != nil {
		persisted, err := store.Identities()
		if err != nil {
			return nil, err
		}
		for _, p := range persisted {
			ids.byName[p.Name] = p.PlayerID
			if p.PlayerID >= ids.nextID {
				ids.nextID = p.PlayerID + 1
			}
		}
	}
	return ids, nil
}

// Assign resolves a display name to a player id: the recorded id when
// the name is known and that id is not currently active, otherwise a
// fresh monotonically increasing one. The mapping is recorded either
// way. The returned error is a persistence failure only; the assignment
// itself always succeeds.
func (i *Identities) Assign(name string, active func(playerID int) bool) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	id, known := i.byName[name]
	if !known || active(id) {
		id = i.nextID
		i.nextID++
	}
	i.byName[name] = id

	if i.store != nil {
		if err := i.store.SaveIdentity(name, id); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Lookup returns the recorded id for a name, if any.
func (i *Identities) Lookup(name string) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.byName[name]
	return id, ok
}
