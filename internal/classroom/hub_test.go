package classroom

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialRawRoom connects without waiting for the connection confirmation.
func dialRawRoom(t *testing.T, serverURL, room string) *wsReader {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = "/ws/classroom/" + room

	header := http.Header{}
	header.Set("Origin", serverURL)

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	})
	return &wsReader{conn: conn}
}

func TestHubShutdownWithNoClients(t *testing.T) {
	registry, router := newTestRouter(false)
	hub := NewHub(registry, router)

	start := time.Now()
	err := hub.Shutdown(5 * time.Second)

	assert.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "shutdown with no clients should return immediately")
}

func TestHubShutdownClosesConnectedClients(t *testing.T) {
	registry, router := newTestRouter(false)
	hub := NewHub(registry, router)

	ts := httptest.NewServer(SetupRoutes(hub))
	defer ts.Close()

	cfg := NewConfig()
	cfg.AllowedOrigins = append(cfg.AllowedOrigins, ts.URL)
	SetConfig(cfg)
	t.Cleanup(func() { SetConfig(nil) })

	alice := dialRoom(t, ts.URL, "r1", "Alice", "student")
	bob := dialRoom(t, ts.URL, "r2", "Bob", "teacher")

	require.NoError(t, hub.Shutdown(5*time.Second))

	rooms, sessions := registry.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, sessions)

	// Both clients observe the connection ending once their streams drain.
	for _, reader := range []*wsReader{alice, bob} {
		require.NoError(t, reader.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		for {
			if _, _, err := reader.conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

func TestHubRejectsConnectionsAfterShutdown(t *testing.T) {
	registry, router := newTestRouter(false)
	hub := NewHub(registry, router)

	ts := httptest.NewServer(SetupRoutes(hub))
	defer ts.Close()

	cfg := NewConfig()
	cfg.AllowedOrigins = append(cfg.AllowedOrigins, ts.URL)
	SetConfig(cfg)
	t.Cleanup(func() { SetConfig(nil) })

	require.NoError(t, hub.Shutdown(time.Second))

	// The upgrade still succeeds at the HTTP layer, but the hub closes the
	// connection instead of joining it to a room.
	reader := dialRawRoom(t, ts.URL, "r1")
	require.NoError(t, reader.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := reader.conn.ReadMessage()
	require.Error(t, err)

	_, sessions := registry.Stats()
	assert.Equal(t, 0, sessions)
}
