// Package classroom wires HTTP handlers into a ServeMux for the RaiseHand
// application via routing helpers.
package classroom

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all application
// routes: the test page, the health check, runtime stats, and the room
// WebSocket endpoint.
func SetupRoutes(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", TestPageHandler)
	mux.HandleFunc("/healthz", HealthHandler)
	mux.HandleFunc("/stats", StatsHandler(hub))
	mux.HandleFunc("/ws/classroom/{room}", WebSocketHandler(hub))
	return mux
}
