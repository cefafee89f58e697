package relay

import "sync"

// Connection is a live relay connection joined to a single room.
type Connection struct {
	ConnectionID string
	UserID       string
	DisplayName  string
	RoomID       string
}

// Registry is the in-memory table of live connections and their room index.
// It is the only shared mutable state in the relay; every read hands out a
// snapshot, never the underlying maps.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Connection
	rooms map[string][]string // connection ids in join order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]Connection),
		rooms: make(map[string][]string),
	}
}

// Register adds the connection, overwriting any prior entry for the same
// connection id. A reconnect that never sent an explicit leave lands here
// with the same id and simply replaces its old room assignment.
func (r *Registry) Register(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[conn.ConnectionID]; ok {
		r.removeFromRoom(prev.RoomID, prev.ConnectionID)
	}
	r.conns[conn.ConnectionID] = conn
	r.rooms[conn.RoomID] = append(r.rooms[conn.RoomID], conn.ConnectionID)
}

// Deregister removes and returns the connection. A missing entry is a normal
// result: duplicate disconnects and disconnects racing in-flight operations
// are expected.
func (r *Registry) Deregister(connectionID string) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connectionID]
	if !ok {
		return Connection{}, false
	}
	delete(r.conns, connectionID)
	r.removeFromRoom(conn.RoomID, connectionID)
	return conn, true
}

// Lookup returns the connection registered under the id, if any.
func (r *Registry) Lookup(connectionID string) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connectionID]
	return conn, ok
}

// ConnectionsInRoom returns a snapshot of the room's connections in join
// order. Callers may iterate and mutate the slice freely.
func (r *Registry) ConnectionsInRoom(roomID string) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.rooms[roomID]
	conns := make([]Connection, 0, len(ids))
	for _, id := range ids {
		if conn, ok := r.conns[id]; ok {
			conns = append(conns, conn)
		}
	}
	return conns
}

// CountInRoom counts connections, not distinct users: a user with several
// open sessions in the room is counted once per session.
func (r *Registry) CountInRoom(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// RemoveRoom drops every connection indexed under the room and returns the
// removed entries. Used by room teardown; there is no grace period.
func (r *Registry) RemoveRoom(roomID string) []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.rooms[roomID]
	removed := make([]Connection, 0, len(ids))
	for _, id := range ids {
		if conn, ok := r.conns[id]; ok {
			removed = append(removed, conn)
			delete(r.conns, id)
		}
	}
	delete(r.rooms, roomID)
	return removed
}

// removeFromRoom must be called with the write lock held.
func (r *Registry) removeFromRoom(roomID, connectionID string) {
	ids := r.rooms[roomID]
	for i, id := range ids {
		if id == connectionID {
			r.rooms[roomID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.rooms[roomID]) == 0 {
		delete(r.rooms, roomID)
	}
}
