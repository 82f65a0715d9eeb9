package game

import "sync"

// Registry is the process-wide room table. Rooms are created lazily on first
// join and live for the rest of the process, even when empty. A registry is
// built at startup and handed to the gateway, so tests can run against fresh
// ones.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for name, creating it with a fresh board if it
// was never seen. Concurrent first joins of the same name yield the same
// room.
func (r *Registry) GetOrCreate(name string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	if !ok {
		room = NewRoom(name)
		r.rooms[name] = room
	}
	return room
}

// Get looks up an existing room without creating one. Actions against rooms
// nobody ever joined resolve to nothing.
func (r *Registry) Get(name string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	return room, ok
}
