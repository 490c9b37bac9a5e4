// Package classroom manages per-connection sessions: identity, room
// membership, hand state, and the connect/message/disconnect lifecycle.
package classroom

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Conn is the transport half of a session. The core only needs a way to push
// an encoded envelope to the peer and to force the connection closed; the
// WebSocket client in this package implements it, and tests substitute
// in-memory fakes.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// ConnectParams carries the initiation metadata extracted from the transport
// handshake: the room key from the URL path and the optional username and
// type query parameters.
type ConnectParams struct {
	Room     string
	Username string
	Role     string
}

// Session represents one active participant connection. A session belongs to
// at most one room for its whole lifetime and moves through exactly three
// states: created, connected (after Connect), and disconnected (after the
// first Disconnect).
type Session struct {
	id       string
	name     string
	role     Role
	room     string
	conn     Conn
	registry *Registry
	router   *Router

	mu         sync.Mutex
	handRaised bool

	closeOnce sync.Once
}

// NewSession builds a session around a transport connection. A missing
// username gets a generated anonymous tag; a missing or unrecognized type
// defaults to student.
func NewSession(conn Conn, registry *Registry, router *Router, p ConnectParams) *Session {
	id := uuid.NewString()
	name := p.Username
	if name == "" {
		name = "Anonymous_" + id[:8]
	}

	return &Session{
		id:       id,
		name:     name,
		role:     ParseRole(p.Role),
		room:     p.Room,
		conn:     conn,
		registry: registry,
		router:   router,
	}
}

// ID returns the unique connection identifier.
func (s *Session) ID() string { return s.id }

// Name returns the display name used in broadcast envelopes.
func (s *Session) Name() string { return s.name }

// Role returns the participant role.
func (s *Session) Role() Role { return s.role }

// Room returns the room key this session is scoped to.
func (s *Session) Room() string { return s.room }

// HandRaised reports the session's self-reported hand state. Each client
// renders its own view from the event stream; this flag is bookkeeping, not
// an authoritative ledger.
func (s *Session) HandRaised() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handRaised
}

func (s *Session) setHandRaised(raised bool) {
	s.mu.Lock()
	s.handRaised = raised
	s.mu.Unlock()
}

// Connect joins the session to its room and confirms the connection to the
// session itself. The confirmation is never broadcast.
func (s *Session) Connect() {
	s.registry.Join(s.room, s)
	s.deliver(NewConnectionEstablished(s.room, s.name))
}

// HandleFrame processes one inbound frame. A frame that fails to decode is
// answered with an error envelope to this session only; the connection stays
// open and nothing reaches the room.
func (s *Session) HandleFrame(data []byte) {
	env, err := Decode(data)
	if err != nil {
		log.Printf("Invalid frame from session %s: %v", s.id, err)
		s.deliver(NewDecodeError())
		return
	}
	s.router.Route(s, env)
}

// Disconnect runs the single-shot cleanup path: broadcast that the hand is
// down, leave the room, close the transport. Read errors, write errors, and
// external close signals may all race to call this; only the first wins.
func (s *Session) Disconnect() {
	s.closeOnce.Do(func() {
		s.router.Disconnected(s)
		s.registry.Leave(s.room, s)
		if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing connection for session %s: %v", s.id, err)
		}
	})
}

// deliver encodes an envelope and pushes it to this session only.
func (s *Session) deliver(env Envelope) {
	data, err := Encode(env)
	if err != nil {
		log.Printf("Error encoding %s envelope for session %s: %v", env.Type, s.id, err)
		return
	}
	if err := s.conn.Send(data); err != nil {
		log.Printf("Dropping %s envelope for session %s: %v", env.Type, s.id, err)
	}
}
