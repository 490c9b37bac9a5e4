// Package classroom coordinates connection startup, pump goroutines, and
// graceful shutdown for the RaiseHand WebSocket service via the Hub type.
package classroom

import (
	"context"
	"log"
	"sync"
	"time"
)

// Hub supervises every live connection. It does not route events itself —
// that is the Router's job — but it starts the pump goroutines for each
// accepted connection, tracks them in a WaitGroup, and closes them all on
// shutdown.
type Hub struct {
	registry *Registry
	router   *Router
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewHub creates a hub over the shared registry and router.
func NewHub(registry *Registry, router *Router) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry: registry,
		router:   router,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Registry exposes the shared registry for stats reporting.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Start binds a session to the accepted client, joins it to its room, and
// launches the read and write pumps. Connections arriving after shutdown
// has begun are closed immediately.
func (h *Hub) Start(client *Client, p ConnectParams) {
	select {
	case <-h.ctx.Done():
		if err := client.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing connection during shutdown from %s: %v", client.addr, err)
		}
		return
	default:
	}

	session := NewSession(client, h.registry, h.router, p)
	client.session = session
	session.Connect()

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// Shutdown disconnects every live session and waits for their pump
// goroutines to finish, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")
	h.cancel()

	sessions := h.registry.Sessions()
	for _, s := range sessions {
		s.Disconnect()
	}
	log.Printf("Closed %d client connections", len(sessions))

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
