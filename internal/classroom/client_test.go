package classroom

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsPair upgrades one connection on an httptest server and hands back both
// ends: the server side for wrapping in a Client, the peer for reading what
// the write pump puts on the wire.
func wsPair(t *testing.T) (server, peer *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	peer, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = peer.Close()
		_ = resp.Body.Close()
	})

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("server side of the connection never arrived")
	}
	return server, peer
}

// A backlog in the send queue must drain as one frame per envelope; clients
// JSON-parse each frame whole, so two envelopes may never share a frame.
func TestWritePumpSendsOneEnvelopePerFrame(t *testing.T) {
	registry, router := newTestRouter(false)
	serverConn, peer := wsPair(t)

	client := NewClient(serverConn, "test")
	client.session = NewSession(client, registry, router, ConnectParams{Room: "r1", Username: "Alice"})

	// Queue both envelopes before the pump starts so they sit in the same
	// drain cycle.
	raised, err := Encode(NewHandRaised("Alice"))
	require.NoError(t, err)
	lowered, err := Encode(NewHandLowered("Alice", ReasonSelfLowered))
	require.NoError(t, err)
	require.NoError(t, client.Send(raised))
	require.NoError(t, client.Send(lowered))

	go client.writePump()
	t.Cleanup(func() { _ = client.Close() })

	for _, want := range []string{EventHandRaised, EventHandLowered} {
		require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, frame, err := peer.ReadMessage()
		require.NoError(t, err)

		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env), "frame is not a single envelope: %q", frame)
		assert.Equal(t, want, env.Type)
	}
}
