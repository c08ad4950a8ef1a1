package util

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the floor for the configurable work factor. bcrypt
// embeds the per-password salt and the cost in the digest, so verification
// needs nothing beyond the digest itself.
const MinBcryptCost = 10

func HashPassword(password string, cost int) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches digest. The comparison is
// constant time, and a malformed digest yields false rather than an error.
func VerifyPassword(password, digest string) bool {
	if len(password) == 0 || len(digest) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
