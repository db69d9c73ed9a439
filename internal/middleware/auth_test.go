package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/snooker/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", TokenTTLMinutes: 60, Environment: "development"}
}

func TestPlayerTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := IssuePlayerToken(cfg, "s-1", "ada")
	require.NoError(t, err)

	id, err := ParsePlayerToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", id)

	_, err = ParseAdminToken(cfg, token)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestTokenRejectedWithOtherSecretOrExpired(t *testing.T) {
	cfg := testConfig()
	token, err := IssueAdminToken(cfg, "root")
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "another"
	_, err = ParseAdminToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := testConfig()
	expired.TokenTTLMinutes = -5
	stale, err := IssueAdminToken(expired, "root")
	require.NoError(t, err)
	_, err = ParseAdminToken(cfg, stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	name, err := ParseAdminToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "root", name)
}

func TestPlayerAuthChecksSessionParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	r := gin.New()
	r.POST("/sessions/:id", PlayerAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": c.GetString("session_id")})
	})

	token, err := IssuePlayerToken(cfg, "s-1", "ada")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing", "/sessions/s-1", "", http.StatusUnauthorized},
		{"garbage", "/sessions/s-1", "Bearer nope", http.StatusUnauthorized},
		{"other session", "/sessions/s-2", "Bearer " + token, http.StatusForbidden},
		{"ok", "/sessions/s-1", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestWebSocketCORSCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(origin string) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("http://localhost:5173"))
	assert.Equal(t, http.StatusOK, do(""))
	assert.Equal(t, http.StatusForbidden, do("https://evil.example"))
}
