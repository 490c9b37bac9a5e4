// Package classroom exposes HTTP handlers, including WebSocket upgrades,
// health checks, runtime stats, and the built-in test page.
package classroom

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// roomKeyPattern constrains room keys to a single word-character path
// segment.
var roomKeyPattern = regexp.MustCompile(`^\w+$`)

// WebSocketHandler returns the handler for the classroom WebSocket endpoint.
// It validates the room key from the path, extracts the optional username
// and type query parameters, upgrades the connection, and hands it to the
// hub, which joins the session to its room and starts the pumps.
func WebSocketHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		room := r.PathValue("room")
		if !roomKeyPattern.MatchString(room) {
			http.Error(w, "Invalid room name.", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(conn, r.RemoteAddr)
		hub.Start(client, ConnectParams{
			Room:     room,
			Username: r.URL.Query().Get("username"),
			Role:     r.URL.Query().Get("type"),
		})
	}
}

// HealthHandler provides a simple health check endpoint that returns server
// status. It responds with a plain text message indicating the server is
// running.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "RaiseHand server is running!")
}

// StatsHandler returns a handler reporting the current room and client
// counts as JSON.
func StatsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		rooms, clients := hub.Registry().Stats()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"rooms": rooms, "clients": clients}); err != nil {
			log.Printf("Error writing stats response: %v", err)
		}
	}
}

// TestPageHandler serves an HTML test page for poking the classroom
// endpoint by hand: connect to a room as student or teacher, raise and
// lower your hand, and watch the event stream.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	html := `<!DOCTYPE html>
<html>
<head>
    <title>RaiseHand Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #events { border: 1px solid #ccc; height: 300px; padding: 10px; overflow-y: scroll; margin: 10px 0; background-color: #f9f9f9; }
        input, select { padding: 5px; margin-right: 5px; }
        button { padding: 5px 15px; cursor: pointer; }
    </style>
</head>
<body>
    <h1>RaiseHand Test</h1>
    <div>
        <input type="text" id="room" value="room1" placeholder="Room">
        <input type="text" id="username" placeholder="Name">
        <select id="role"><option>student</option><option>teacher</option></select>
        <button onclick="connect()">Connect</button>
    </div>
    <div>
        <button onclick="send({type:'raise_hand'})">Raise hand</button>
        <button onclick="send({type:'lower_hand'})">Lower hand</button>
        <input type="text" id="ack" placeholder="Student to acknowledge">
        <button onclick="send({type:'acknowledge_hand',student:document.getElementById('ack').value})">Acknowledge</button>
        <input type="text" id="chat" placeholder="Message">
        <button onclick="send({type:'send_message',message:document.getElementById('chat').value})">Chat</button>
    </div>
    <div id="events"></div>
    <script>
        let ws = null;
        function logEvent(text) {
            const div = document.createElement('div');
            div.textContent = text;
            const events = document.getElementById('events');
            events.appendChild(div);
            events.scrollTop = events.scrollHeight;
        }
        function connect() {
            if (ws) ws.close();
            const room = document.getElementById('room').value;
            const name = document.getElementById('username').value;
            const role = document.getElementById('role').value;
            ws = new WebSocket('ws://' + location.host + '/ws/classroom/' + room +
                '?username=' + encodeURIComponent(name) + '&type=' + role);
            ws.onmessage = function(e) { logEvent(e.data); };
            ws.onclose = function() { logEvent('-- disconnected --'); };
        }
        function send(msg) {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify(msg));
            }
        }
    </script>
</body>
</html>`
	if _, err := fmt.Fprint(w, html); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}
