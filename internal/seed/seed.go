// Package seed produces the key-generation seeds used by producers.
//
// Without a master secret, seeds follow the fixed counting pattern
// (byte i has value i) so every run publishes the same key material.
// With a master secret, per-family seeds are derived with HKDF-SHA-512.
package seed

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/pqinterop/crossverify/internal/layout"
)

// InfoPrefix is the HKDF info prefix. The family name is appended.
const InfoPrefix = "crossverify:seed:v1:"

// ErrInvalidLength is returned for a non-positive seed length.
var ErrInvalidLength = errors.New("invalid seed length")

// Source hands out seeds for a family.
type Source struct {
	master []byte
}

// NewSource returns a Source. A nil or empty master selects the counting pattern.
func NewSource(master []byte) *Source {
	return &Source{master: append([]byte(nil), master...)}
}

// Deterministic reports whether seeds come from the fixed counting pattern.
func (s *Source) Deterministic() bool {
	return len(s.master) == 0
}

// For returns a seed of length n for family f.
func (s *Source) For(f layout.Family, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if s == nil || len(s.master) == 0 {
		return Counting(n), nil
	}
	return Derive(s.master, nil, []byte(InfoPrefix+string(f)), n)
}

// Counting returns n bytes where byte i has value i mod 256.
func Counting(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// Derive derives a key using HKDF-SHA-512.
func Derive(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive seed: %w", err)
	}

	return key, nil
}
