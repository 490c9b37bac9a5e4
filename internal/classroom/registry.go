// Package classroom tracks which sessions belong to which room via the
// Registry type, which is safe for concurrent joins, leaves, and broadcast
// snapshots.
package classroom

import (
	"log"
	"sync"
)

// Registry maps room keys to their member sessions. Rooms are created
// implicitly on first join and evicted as soon as their last member leaves,
// so the map never accumulates entries for rooms nobody is in. All methods
// are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

// NewRegistry creates an empty Registry ready to accept joins.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[*Session]struct{}),
	}
}

// Join adds a session to a room's member set, creating the room if this is
// its first member. Joining the same room twice is a no-op.
func (r *Registry) Join(room string, s *Session) {
	r.mu.Lock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		r.rooms[room] = members
	}
	members[s] = struct{}{}
	count := len(members)
	r.mu.Unlock()

	log.Printf("Session %s (%s) joined room %q. Room members: %d", s.ID(), s.Name(), room, count)
}

// Leave removes a session from a room's member set. Removal is idempotent:
// disconnect cleanup may race with an already-completed removal, and the
// second call must be a harmless no-op. The room is evicted once empty.
func (r *Registry) Leave(room string, s *Session) {
	r.mu.Lock()
	members, ok := r.rooms[room]
	if !ok {
		r.mu.Unlock()
		return
	}
	if _, present := members[s]; !present {
		r.mu.Unlock()
		return
	}
	delete(members, s)
	count := len(members)
	if count == 0 {
		delete(r.rooms, room)
	}
	r.mu.Unlock()

	log.Printf("Session %s (%s) left room %q. Room members: %d", s.ID(), s.Name(), room, count)
	if count == 0 {
		log.Printf("Room %q is empty and was removed", room)
	}
}

// Members returns a snapshot of the room's current member set. The copy
// keeps a broadcast iteration stable while concurrent joins and leaves
// mutate the underlying set.
func (r *Registry) Members(room string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}
	snapshot := make([]*Session, 0, len(members))
	for s := range members {
		snapshot = append(snapshot, s)
	}
	return snapshot
}

// Sessions returns a snapshot of every session across all rooms. Used by
// shutdown to close each live connection.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*Session
	for _, members := range r.rooms {
		for s := range members {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// Stats reports the current number of rooms and sessions.
func (r *Registry) Stats() (rooms, sessions int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms = len(r.rooms)
	for _, members := range r.rooms {
		sessions += len(members)
	}
	return rooms, sessions
}
