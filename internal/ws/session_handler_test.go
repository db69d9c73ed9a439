package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/middleware"
)

type inbound struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func setupServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		TickRate:            60,
		SnapshotEveryFrames: 6,
		MaxSessions:         5,
		SessionIdleMinutes:  15,
		JWTSecret:           "ws-test",
		TokenTTLMinutes:     5,
		Tuning:              config.DefaultTuning(),
	}
	SetRedisClient(nil, cfg)
	game.InitializeManager(context.Background(), nil, nil, cfg)
	game.Manager.SetBroadcaster(GameHub)
	t.Cleanup(game.Manager.Shutdown)

	r := gin.New()
	r.GET("/sessions/:id/ws", HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func dial(t *testing.T, srv *httptest.Server, sessionID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + sessionID + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

// readUntil reads frames until one matches typ, skipping the rest.
func readUntil(t *testing.T, conn *websocket.Conn, typ string, match func(inbound) bool) inbound {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg inbound
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", typ)
		if msg.Type == typ && (match == nil || match(msg)) {
			return msg
		}
	}
}

func TestSpectatorGetsTableButCannotPlay(t *testing.T) {
	srv, _ := setupServer(t)
	room, err := game.Manager.CreateSession("ada", game.LayoutStarting)
	require.NoError(t, err)

	conn, _, err := dial(t, srv, room.ID, "")
	require.NoError(t, err)

	first := readUntil(t, conn, "snapshot", nil)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(first.Data, &snap))
	require.NotNil(t, snap.Table, "first snapshot carries the table")
	assert.Len(t, snap.Balls, 21)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "pointer", "data": map[string]interface{}{"x": 300, "y": 300, "pressed": true}}))
	errMsg := readUntil(t, conn, "error", nil)
	assert.Equal(t, "Spectators cannot send input", errMsg.Message)
}

func TestControllerPlacesCueBall(t *testing.T) {
	srv, cfg := setupServer(t)
	room, err := game.Manager.CreateSession("ada", game.LayoutStarting)
	require.NoError(t, err)
	token, err := middleware.IssuePlayerToken(cfg, room.ID, "ada")
	require.NoError(t, err)

	conn, _, err := dial(t, srv, room.ID, token)
	require.NoError(t, err)
	readUntil(t, conn, "snapshot", nil)

	pointer := func(pressed bool) {
		require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "pointer", "data": PointerData{X: 300, Y: 300, Pressed: pressed}}))
	}
	pointer(true)
	pointer(false)

	readUntil(t, conn, "event", func(m inbound) bool {
		var e game.Event
		return json.Unmarshal(m.Data, &e) == nil && e.Type == game.EventCuePlaced
	})
	assert.Equal(t, game.PhaseGaming, room.Snapshot().Phase)
}

func TestLayoutMessages(t *testing.T) {
	srv, cfg := setupServer(t)
	room, err := game.Manager.CreateSession("ada", game.LayoutStarting)
	require.NoError(t, err)
	token, err := middleware.IssuePlayerToken(cfg, room.ID, "ada")
	require.NoError(t, err)

	conn, _, err := dial(t, srv, room.ID, token)
	require.NoError(t, err)
	readUntil(t, conn, "snapshot", nil)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "layout", "data": LayoutData{Mode: "zigzag"}}))
	readUntil(t, conn, "error", nil)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "layout", "data": LayoutData{Mode: "randomAll"}}))
	readUntil(t, conn, "event", func(m inbound) bool {
		var e game.Event
		return json.Unmarshal(m.Data, &e) == nil && e.Type == game.EventLayout && e.Mode == "randomAll"
	})
	assert.Equal(t, game.LayoutRandomAll, room.Snapshot().Layout)
}

func TestHandshakeRejections(t *testing.T) {
	srv, cfg := setupServer(t)
	room, err := game.Manager.CreateSession("ada", game.LayoutStarting)
	require.NoError(t, err)

	_, resp, err := dial(t, srv, "nope", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	other, err := middleware.IssuePlayerToken(cfg, "another-session", "bob")
	require.NoError(t, err)
	_, resp, err = dial(t, srv, room.ID, other)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSessionEndedRelayDisconnectsClients(t *testing.T) {
	srv, _ := setupServer(t)
	room, err := game.Manager.CreateSession("ada", game.LayoutStarting)
	require.NoError(t, err)

	conn, _, err := dial(t, srv, room.ID, "")
	require.NoError(t, err)
	readUntil(t, conn, "snapshot", nil)
	require.Eventually(t, func() bool { return GameHub.RoomSize(room.ID) == 1 }, time.Second, 5*time.Millisecond)

	payload, err := json.Marshal(game.RelayMessage{Type: game.RelaySessionEnded, SessionID: room.ID, Status: game.StatusExpired, Reason: "idle"})
	require.NoError(t, err)
	handleRelay(GameHub, string(payload))

	ended := readUntil(t, conn, game.RelaySessionEnded, nil)
	var notice game.RelayMessage
	require.NoError(t, json.Unmarshal(ended.Data, &notice))
	assert.Equal(t, "idle", notice.Reason)
	assert.Equal(t, 0, GameHub.RoomSize(room.ID))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
