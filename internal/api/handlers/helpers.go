package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

const maxPlayerNameLength = 32

// sanitizePlayerName trims name, drops control characters and caps its length.
func sanitizePlayerName(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsControl(r) {
			continue
		}
		if n == maxPlayerNameLength {
			break
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}

// randomIndex returns a uniform index in [0, n).
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateDisplayName creates a short fun display name
func generateDisplayName() string {
	adjectives := []string{"Lucky", "Swift", "Brave", "Jolly", "Mighty", "Quiet", "Clever", "Happy", "Steady", "Zesty"}
	nouns := []string{"Potter", "Cushion", "Break", "Baulk", "Pink", "Black", "Rest", "Chalk", "Spider", "Plant"}
	return fmt.Sprintf("%s %s %d", adjectives[randomIndex(len(adjectives))], nouns[randomIndex(len(nouns))], randomIndex(1000))
}

// pageParams reads limit/offset query params with a default and an upper bound.
func pageParams(c *gin.Context, def, max int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
