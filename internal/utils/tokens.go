package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewResetToken returns a 64-char hex string (32 bytes of entropy) for
// single-use password reset links.
func NewResetToken() (string, error) {
	return NewOpaqueToken(32)
}

// NewOpaqueToken returns a hex-encoded random string of nBytes entropy.
func NewOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
