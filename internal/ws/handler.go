package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playmatatu/snooker/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn       *websocket.Conn
	hub        *Hub
	sessionID  string
	controller bool // holds the session's player token
	send       chan []byte
}

// Hub maintains the set of active clients, grouped by session
type Hub struct {
	rooms      map[string]map[*Client]struct{} // sessionID -> clients
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		unregister: make(chan *Client),
	}
}

var _ game.Broadcaster = (*Hub)(nil)

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Run unregisters clients until the process exits.
func (h *Hub) Run() {
	for client := range h.unregister {
		if h.detach(client) {
			log.Printf("[WS] Client left session %s", client.sessionID)
		}
	}
}

// attach adds client to its session, then asks live whether the session still
// exists. A session that ended before the client was added never sees it in
// SessionEnded, so in that case the client is detached again and attach
// returns false.
func (h *Hub) attach(client *Client, live func() bool) bool {
	h.mu.Lock()
	if _, exists := h.rooms[client.sessionID]; !exists {
		h.rooms[client.sessionID] = make(map[*Client]struct{})
	}
	h.rooms[client.sessionID][client] = struct{}{}
	size := len(h.rooms[client.sessionID])
	h.mu.Unlock()

	if !live() {
		h.detach(client)
		log.Printf("[WS] Session %s ended while a client was joining", client.sessionID)
		return false
	}
	log.Printf("[WS] Client joined session %s (controller=%v, room_size=%d)", client.sessionID, client.controller, size)
	return true
}

// detach removes client and closes its send channel. It reports false when
// the client was already gone.
func (h *Hub) detach(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, exists := h.rooms[client.sessionID]
	if !exists {
		return false
	}
	if _, ok := room[client]; !ok {
		return false
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.sessionID)
	}
	return true
}

// RoomSize returns the number of clients watching a session.
func (h *Hub) RoomSize(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

// BroadcastToSession sends a message to every client of a session
func (h *Hub) BroadcastToSession(sessionID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[sessionID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] Send buffer full for a client of session %s, dropping message", sessionID)
		}
	}
}

// BroadcastSnapshot implements game.Broadcaster.
func (h *Hub) BroadcastSnapshot(sessionID string, snap game.Snapshot) {
	h.BroadcastToSession(sessionID, outMessage{Type: "snapshot", Data: snap})
}

// BroadcastEvents implements game.Broadcaster.
func (h *Hub) BroadcastEvents(sessionID string, events []game.Event) {
	for _, e := range events {
		h.BroadcastToSession(sessionID, outMessage{Type: "event", Data: e})
	}
}

// SessionEnded tells every client the session is over and disconnects them.
func (h *Hub) SessionEnded(sessionID string, notice game.RelayMessage) {
	h.BroadcastToSession(sessionID, outMessage{Type: game.RelaySessionEnded, Data: notice})

	h.mu.Lock()
	defer h.mu.Unlock()
	room, exists := h.rooms[sessionID]
	if !exists {
		return
	}
	for client := range room {
		close(client.send)
	}
	delete(h.rooms, sessionID)
	log.Printf("[WS] Closed %d clients of ended session %s", len(room), sessionID)
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Best-effort close frame; the conn may already be gone.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for session %s: %v", c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for session %s: %v", c.sessionID, err)
				return
			}
		}
	}
}

// sendTo queues message for this client only.
func (c *Client) sendTo(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.rooms[c.sessionID][c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Send buffer full for a client of session %s, dropping message", c.sessionID)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendTo(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
