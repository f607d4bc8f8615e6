// Package token issues opaque bearer tokens for teacher sessions.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// byteLength matches 24 bytes of entropy, 32 characters once encoded.
const byteLength = 24

// Generator produces a new opaque token.
type Generator func() (string, error)

// Generate returns a URL-safe random token backed by crypto/rand.
func Generate() (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
