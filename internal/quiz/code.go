package quiz

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const joinCodeLength = 6

// GenerateJoinCode returns 6 random uppercase hex characters.
func GenerateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// NormalizeJoinCode upper-cases s and reports whether it has join code shape.
func NormalizeJoinCode(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != joinCodeLength {
		return s, false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return s, false
		}
	}
	return s, true
}
