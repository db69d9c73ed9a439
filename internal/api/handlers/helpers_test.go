package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSanitizePlayerName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Ronnie  ", "Ronnie"},
		{"Judd\x00\tTrump", "JuddTrump"},
		{"   ", ""},
		{"Ding Junhui", "Ding Junhui"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizePlayerName(tt.in), "input %q", tt.in)
	}

	long := sanitizePlayerName(strings.Repeat("é", 50))
	assert.Equal(t, maxPlayerNameLength, utf8.RuneCountInString(long))
}

func TestGenerateDisplayName(t *testing.T) {
	name := generateDisplayName()
	assert.Len(t, strings.Fields(name), 3)
	assert.Equal(t, name, sanitizePlayerName(name))
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query         string
		limit, offset int
	}{
		{"", 25, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=1000", 200, 0},
		{"?limit=-3&offset=-1", 25, 0},
		{"?limit=abc", 25, 0},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tt.query, nil)

		limit, offset := pageParams(c, 25, 200)
		assert.Equal(t, tt.limit, limit, tt.query)
		assert.Equal(t, tt.offset, offset, tt.query)
	}
}
