package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/middleware"
)

// PointerData is the payload of a pointer message, in canvas pixels.
type PointerData struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Pressed bool    `json:"pressed"`
}

// LayoutData is the payload of a layout message.
type LayoutData struct {
	Mode string `json:"mode"`
}

// GameHub is the single hub for all sessions.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go GameHub.Run()
}

// HandleWebSocket attaches a client to a session. Clients presenting the
// session's player token may send input; everyone else spectates.
func HandleWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	room, err := game.Manager.GetRoom(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	controller := false
	if token := c.Query("token"); token != "" {
		tokenSession, err := middleware.ParsePlayerToken(wsConfig, token)
		if err != nil || tokenSession != sessionID {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
			return
		}
		controller = true
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:       conn,
		hub:        GameHub,
		sessionID:  sessionID,
		controller: controller,
		send:       make(chan []byte, 256),
	}

	// The full snapshot goes out first so the client can draw the table.
	if data, err := json.Marshal(outMessage{Type: "snapshot", Data: room.FullSnapshot()}); err == nil {
		client.send <- data
	}

	live := func() bool {
		_, err := game.Manager.GetRoom(sessionID)
		return err == nil
	}
	if !GameHub.attach(client, live) {
		// send is closed; writePump sends the close frame and drops the conn.
		go client.writePump()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump reads messages for a session client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for session %s: %v", c.sessionID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming session messages.
func (c *Client) handleMessage(msg WSMessage) {
	room, err := game.Manager.GetRoom(c.sessionID)
	if err != nil {
		c.sendError("Session not found")
		return
	}

	switch msg.Type {
	case "pointer":
		if !c.controller {
			c.sendError("Spectators cannot send input")
			return
		}
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		room.Pointer(game.Vec2{X: data.X, Y: data.Y}, data.Pressed)

	case "layout":
		if !c.controller {
			c.sendError("Spectators cannot change the layout")
			return
		}
		var data LayoutData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid layout data")
			return
		}
		mode, err := game.ParseLayoutMode(data.Mode)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if _, err := room.SelectLayout(mode); err != nil {
			c.sendError(err.Error())
		}

	case "get_state":
		c.sendTo(outMessage{Type: "snapshot", Data: room.FullSnapshot()})

	default:
		c.sendError("Unknown message type")
	}
}
