// Package keygen produces and validates the symmetric key the bot uses for
// cookie encryption. Keys are 32 bytes of entropy, base64-encoded, generated
// once at install time and never rotated by this tooling.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeyBytes is the raw key length before encoding.
const KeyBytes = 32

// Generate returns a fresh base64-encoded key with KeyBytes of entropy.
func Generate() (string, error) {
	raw := make([]byte, KeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Validate reports whether value decodes to exactly KeyBytes of raw key material.
func Validate(value string) error {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	if len(raw) != KeyBytes {
		return fmt.Errorf("key is %d bytes, want %d", len(raw), KeyBytes)
	}
	return nil
}
