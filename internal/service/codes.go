package service

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Ambiguous characters (O, I, 0, 1) are excluded so codes survive being read
// aloud or copied by hand.
const (
	sessionCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	sessionCodeLength = 6
)

// generateSessionCode returns a fresh session code. Collisions are not
// checked: the 32^6 code space makes them an accepted risk.
func generateSessionCode() string {
	chars := []byte(sessionCodeChars)
	code := make([]byte, sessionCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		code[i] = chars[n.Int64()]
	}
	return string(code)
}

// generateUserID returns an opaque member token, unique within the session.
func generateUserID() string {
	return uuid.NewString()
}
