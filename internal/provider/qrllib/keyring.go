package qrllib

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// randReader is the random source used by Keypair.
// It defaults to crypto/rand but can be overridden for testing.
var randReader io.Reader = rand.Reader

func randomSeed(n int) ([]byte, error) {
	seed := make([]byte, n)
	if _, err := io.ReadFull(randReader, seed); err != nil {
		return nil, fmt.Errorf("failed to generate seed: %w", err)
	}
	return seed, nil
}

type zeroizer interface {
	Zeroize()
}

// keyring maps a secret key, as returned by key generation, to the
// instance that can sign with it.
type keyring[T zeroizer] struct {
	mu   sync.Mutex
	keys map[string]T
}

func newKeyring[T zeroizer]() *keyring[T] {
	return &keyring[T]{keys: make(map[string]T)}
}

func (k *keyring[T]) put(sk []byte, v T) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if old, ok := k.keys[string(sk)]; ok {
		old.Zeroize()
	}
	k.keys[string(sk)] = v
}

func (k *keyring[T]) get(sk []byte) (T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.keys[string(sk)]
	if !ok {
		var zero T
		return zero, rounderrors.ErrUnknownSecretKey
	}
	return v, nil
}

func (k *keyring[T]) release(sk []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if v, ok := k.keys[string(sk)]; ok {
		v.Zeroize()
		delete(k.keys, string(sk))
	}
}

func (k *keyring[T]) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.keys)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
