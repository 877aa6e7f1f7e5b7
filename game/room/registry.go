package room

import "sync"

// Registry is the process-wide mapping from room identifier to Room.
// Rooms are created lazily on first join and removed the moment both
// seats are empty.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for the identifier, creating it with two
// empty seats and a fresh position when it does not exist. Identifiers
// are opaque and case-sensitive.
func (reg *Registry) GetOrCreate(id string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if r, ok := reg.rooms[id]; ok {
		return r
	}
	r := newRoom(id)
	reg.rooms[id] = r
	return r
}

// Get returns the room for the identifier without creating it.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// RemoveIfEmpty deletes the room when both seats are vacant and reports
// whether it was removed. The room is marked closed under its own lock so
// a concurrent join cannot seat into the removed instance.
func (reg *Registry) RemoveIfEmpty(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[id]
	if !ok {
		return false
	}

	r.Lock()
	defer r.Unlock()
	if !r.Empty() {
		return false
	}
	r.closed = true
	delete(reg.rooms, id)
	return true
}

// List returns all rooms currently in the registry.
func (reg *Registry) List() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
