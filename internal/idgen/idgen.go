// Package idgen generates random identifiers for presets, sessions and
// requests.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
)

// Prefixes identify what an ID names.
const (
	PresetPrefix  = "pre_"
	SessionPrefix = "ses_"
	RequestPrefix = "req_"
)

// WithPrefix returns prefix followed by 24 hex chars (12 random bytes).
func WithPrefix(prefix string) string {
	return prefix + Hex(12)
}

// Preset returns a new preset ID.
func Preset() string { return WithPrefix(PresetPrefix) }

// Session returns a new live session ID.
func Session() string { return WithPrefix(SessionPrefix) }

// Request returns a new request ID.
func Request() string { return WithPrefix(RequestPrefix) }

// Hex generates a random hex string of the given byte length.
func Hex(numBytes int) string {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
