package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/playmatatu/snooker/internal/config"
)

const (
	rolePlayer = "player"
	roleAdmin  = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongRole    = errors.New("token not valid for this resource")
)

// IssuePlayerToken signs a token that lets its holder drive one session.
func IssuePlayerToken(cfg *config.Config, sessionID, playerName string) (string, error) {
	exp := time.Now().Add(time.Duration(cfg.TokenTTLMinutes) * time.Minute)
	claims := jwt.MapClaims{
		"session_id":  sessionID,
		"player_name": playerName,
		"role":        rolePlayer,
		"exp":         exp.Unix(),
	}
	return sign(cfg, claims)
}

// IssueAdminToken signs an admin bearer token.
func IssueAdminToken(cfg *config.Config, username string) (string, error) {
	exp := time.Now().Add(time.Duration(cfg.TokenTTLMinutes) * time.Minute)
	claims := jwt.MapClaims{
		"username": username,
		"role":     roleAdmin,
		"exp":      exp.Unix(),
	}
	return sign(cfg, claims)
}

func sign(cfg *config.Config, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func parse(cfg *config.Config, raw, role string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if r, _ := claims["role"].(string); r != role {
		return nil, ErrWrongRole
	}
	return claims, nil
}

// ParsePlayerToken returns the session ID a player token was issued for.
func ParsePlayerToken(cfg *config.Config, raw string) (string, error) {
	claims, err := parse(cfg, raw, rolePlayer)
	if err != nil {
		return "", err
	}
	sessionID, _ := claims["session_id"].(string)
	if sessionID == "" {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}

// ParseAdminToken returns the admin username a token was issued for.
func ParseAdminToken(cfg *config.Config, raw string) (string, error) {
	claims, err := parse(cfg, raw, roleAdmin)
	if err != nil {
		return "", err
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", ErrInvalidToken
	}
	return username, nil
}

func bearer(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

// PlayerAuth validates a bearer player token against the :id route param and
// sets session_id in the context.
func PlayerAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		sessionID, err := ParsePlayerToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if id := c.Param("id"); id != "" && id != sessionID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is for another session"})
			return
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// AdminAuth validates a bearer admin token and sets admin_username in the context.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		username, err := ParseAdminToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Set("admin_username", username)
		c.Next()
	}
}
