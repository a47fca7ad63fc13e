// Package provider defines the contract every signature implementation is
// driven through during an exchange.
//
// A Provider wraps one implementation of one family in one wire format.
// Byte lengths of keys, seeds and signatures are the constants in the
// layout package; a provider returns an error for malformed input and
// false for a well-formed signature it rejects.
package provider

import (
	"github.com/pqinterop/crossverify/internal/layout"
)

// Provider is the capability contract of a signature implementation.
type Provider interface {
	// Name identifies the implementation in reports.
	Name() string
	Family() layout.Family
	Format() layout.Format

	// Keypair generates a fresh key pair.
	Keypair() (pk, sk []byte, err error)
	// Sign signs msg under ctx with sk.
	Sign(msg []byte, ctx Context, sk []byte) ([]byte, error)
	// Verify reports whether sig is valid for msg and ctx under pk.
	Verify(sig, msg []byte, ctx Context, pk []byte) (bool, error)
}

// Seeded is implemented by providers that derive key pairs deterministically
// from a seed.
type Seeded interface {
	Provider
	SeedSize() int
	KeypairFromSeed(seed []byte) (pk, sk []byte, err error)
}

// Opener is implemented by providers whose verification entry point takes
// the signature and message as one signed-message buffer.
type Opener interface {
	Provider
	Open(sm []byte, ctx Context, pk []byte) (bool, error)
}

// Releaser is implemented by providers that keep signing state for secret
// keys they created. Release zeroizes and forgets the state for sk.
type Releaser interface {
	Release(sk []byte)
}
