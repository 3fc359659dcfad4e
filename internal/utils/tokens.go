package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewConfirmationToken returns an opaque single-use token for one
// assignment. nBytes of entropy, hex encoded.
func NewConfirmationToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
