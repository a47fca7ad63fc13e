package exchange

import (
	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
)

var defaultMessages = map[layout.Family]string{
	layout.Dilithium: "Dilithium cross-implementation verification",
	layout.MLDSA:     "ML-DSA-87 cross-implementation verification",
	layout.SPHINCS:   "SPHINCS+ cross-implementation verification",
	layout.XMSS:      "XMSS cross-implementation verification",
}

// DefaultMessage returns the message a producer signs when none is given.
func DefaultMessage(f layout.Family) []byte {
	return []byte(defaultMessages[f])
}

// DefaultContext returns the context a producer signs under when none is
// given. ML-DSA rounds use "test"; other families have no context.
func DefaultContext(f layout.Family) provider.Context {
	if f.SupportsContext() {
		return provider.NewContext([]byte("test"))
	}
	return provider.NoContext()
}

// DerivesFromSeed reports whether a producer on side derives its key pair
// from a seed. Subject producers always do. Reference producers generate
// fresh keys for the lattice families and derive from the seed for the
// seed-deterministic ones, so only there is "same seed, same public key"
// a meaningful check.
func DerivesFromSeed(f layout.Family, side layout.Format) bool {
	if side == layout.Subject {
		return true
	}
	return f.SeedDeterministic()
}
