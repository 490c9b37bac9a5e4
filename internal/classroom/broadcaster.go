// Package classroom fans encoded envelopes out to room members through the
// Broadcaster interface and its in-process implementation.
package classroom

import "log"

// Broadcaster delivers one envelope to every session currently in a room.
// The in-process implementation dispatches through the shared registry; the
// Redis implementation publishes through a pub/sub channel so multiple
// server instances can share rooms. The core never hard-codes which.
type Broadcaster interface {
	Broadcast(room string, env Envelope)
}

// LocalBroadcaster is the single-instance backend: it encodes once and
// writes directly to every member of the room's current snapshot.
type LocalBroadcaster struct {
	registry *Registry
}

// NewLocalBroadcaster creates an in-process broadcaster over the given
// registry.
func NewLocalBroadcaster(registry *Registry) *LocalBroadcaster {
	return &LocalBroadcaster{registry: registry}
}

// Broadcast encodes the envelope and delivers it to every current member of
// the room, including the sender's own session.
func (b *LocalBroadcaster) Broadcast(room string, env Envelope) {
	data, err := Encode(env)
	if err != nil {
		log.Printf("Error encoding %s envelope for room %q: %v", env.Type, room, err)
		return
	}
	b.deliver(room, data)
}

// deliver writes pre-encoded bytes to every member of the room. A failed
// write to one recipient is a stale-connection race, not a broadcast
// failure: it is logged and swallowed so the remaining members still get
// the envelope.
func (b *LocalBroadcaster) deliver(room string, data []byte) {
	for _, s := range b.registry.Members(room) {
		if err := s.conn.Send(data); err != nil {
			log.Printf("Dropping delivery to session %s in room %q: %v", s.ID(), room, err)
		}
	}
}
