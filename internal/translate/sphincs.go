package translate

import (
	"bytes"
	"fmt"

	"github.com/pqinterop/crossverify/internal/layout"
)

// SPHINCS translates SPHINCS+ artifacts. Keys and signatures are identical
// in both formats; the seed is the only artifact that must cross the
// boundary before key generation.
type SPHINCS struct{}

// Family implements Translator.
func (SPHINCS) Family() layout.Family { return layout.SPHINCS }

// PublicKey implements Translator.
func (SPHINCS) PublicKey(pk []byte, from, to layout.Format) ([]byte, error) {
	return identity(layout.SPHINCS, layout.PublicKey, pk, from, to)
}

// Signature implements Translator.
func (SPHINCS) Signature(sig []byte, from, to layout.Format) ([]byte, error) {
	return identity(layout.SPHINCS, layout.Signature, sig, from, to)
}

// Seed implements Translator.
func (SPHINCS) Seed(seed []byte, from, to layout.Format) ([]byte, error) {
	return identity(layout.SPHINCS, layout.Seed, seed, from, to)
}

// Artifacts implements Translator.
func (s SPHINCS) Artifacts(a Artifacts, from, to layout.Format) (Artifacts, error) {
	return translateCommon(s, a, from, to)
}

// SplitSeed returns the secret seed, PRF seed and public seed of a
// SPHINCS+ seed, in that order.
func (SPHINCS) SplitSeed(seed []byte) (skSeed, skPRF, pubSeed []byte, err error) {
	if err := layout.Check(layout.SPHINCS, layout.Subject, layout.Seed, seed); err != nil {
		return nil, nil, nil, err
	}
	skSeed = bytes.Clone(seed[layout.SPHINCSOffsetSKSeed:layout.SPHINCSOffsetSKPRF])
	skPRF = bytes.Clone(seed[layout.SPHINCSOffsetSKPRF:layout.SPHINCSOffsetPubSeed])
	pubSeed = bytes.Clone(seed[layout.SPHINCSOffsetPubSeed:layout.SPHINCSSeedSize])
	return skSeed, skPRF, pubSeed, nil
}

// CheckSeedMatchesKey asserts that pk starts with the public seed of seed.
// The remaining half of pk is the tree root, which only key generation
// can confirm.
func (s SPHINCS) CheckSeedMatchesKey(seed, pk []byte) error {
	_, _, pubSeed, err := s.SplitSeed(seed)
	if err != nil {
		return err
	}
	if err := layout.Check(layout.SPHINCS, layout.Subject, layout.PublicKey, pk); err != nil {
		return err
	}
	if !bytes.Equal(pk[:layout.SPHINCSN], pubSeed) {
		return fmt.Errorf("%w: public seed differs", ErrSeedMismatch)
	}
	return nil
}
