package util

import (
	"crypto/rand"
	"encoding/hex"
)

const sessionTokenBytes = 32

// GenerateSessionToken returns a hex-encoded token with 256 bits of
// entropy from crypto/rand.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
