package classroom

import (
	"encoding/json"
	"sync"
	"testing"
)

// fakeConn is an in-memory Conn that records everything sent to it.
type fakeConn struct {
	mu      sync.Mutex
	sent    [][]byte
	closed  bool
	sendErr error
}

func (f *fakeConn) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// envelopes decodes everything the conn has received so far.
func (f *fakeConn) envelopes(t *testing.T) []Envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Envelope, 0, len(f.sent))
	for _, data := range f.sent {
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("received undecodable envelope %q: %v", data, err)
		}
		out = append(out, env)
	}
	return out
}

// newTestRouter wires a registry, local broadcaster, and router together.
func newTestRouter(strict bool) (*Registry, *Router) {
	registry := NewRegistry()
	router := NewRouter(NewLocalBroadcaster(registry), strict)
	return registry, router
}

// joinSession creates a session over a fakeConn and adds it to the room
// without emitting the connection confirmation, keeping received envelope
// counts clean for assertions.
func joinSession(registry *Registry, router *Router, room, name string, role Role) (*Session, *fakeConn) {
	conn := &fakeConn{}
	s := NewSession(conn, registry, router, ConnectParams{
		Room:     room,
		Username: name,
		Role:     string(role),
	})
	registry.Join(room, s)
	return s, conn
}
