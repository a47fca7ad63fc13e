package translate

import (
	"github.com/pqinterop/crossverify/internal/layout"
)

// Lattice translates Dilithium and ML-DSA artifacts. Both formats share
// the same layouts, so every conversion is the identity after an exact
// length check. Context handling follows provider.Normalize.
type Lattice struct {
	family layout.Family
}

// Family implements Translator.
func (l Lattice) Family() layout.Family { return l.family }

// PublicKey implements Translator.
func (l Lattice) PublicKey(pk []byte, from, to layout.Format) ([]byte, error) {
	return identity(l.family, layout.PublicKey, pk, from, to)
}

// Signature implements Translator.
func (l Lattice) Signature(sig []byte, from, to layout.Format) ([]byte, error) {
	return identity(l.family, layout.Signature, sig, from, to)
}

// Seed implements Translator.
func (l Lattice) Seed(seed []byte, from, to layout.Format) ([]byte, error) {
	return identity(l.family, layout.Seed, seed, from, to)
}

// Artifacts implements Translator.
func (l Lattice) Artifacts(a Artifacts, from, to layout.Format) (Artifacts, error) {
	return translateCommon(l, a, from, to)
}
