package reference

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
	"github.com/pqinterop/crossverify/internal/translate"
)

// randReader is the random source used by Keypair.
var randReader io.Reader = rand.Reader

// SPHINCS is the reference-format SPHINCS+ provider. Keys follow
// crypto_sign_seed_keypair: sk = seed || root and pk = pub_seed || root.
type SPHINCS struct {
	backend provider.Seeded
	tr      translate.SPHINCS
}

var _ provider.Seeded = (*SPHINCS)(nil)

// NewSPHINCS wraps a SPHINCS+ backend.
func NewSPHINCS(backend provider.Seeded) (*SPHINCS, error) {
	if backend == nil || backend.Family() != layout.SPHINCS {
		return nil, &rounderrors.TranslationError{Family: string(layout.SPHINCS), Reason: "backend is not a SPHINCS+ provider"}
	}
	return &SPHINCS{backend: backend}, nil
}

func (s *SPHINCS) Name() string          { return "reference/sphincs+ via " + s.backend.Name() }
func (s *SPHINCS) Family() layout.Family { return layout.SPHINCS }
func (s *SPHINCS) Format() layout.Format { return layout.Reference }
func (s *SPHINCS) SeedSize() int         { return layout.SPHINCSSeedSize }

// Keypair implements provider.Provider.
func (s *SPHINCS) Keypair() ([]byte, []byte, error) {
	seed := make([]byte, layout.SPHINCSSeedSize)
	if _, err := io.ReadFull(randReader, seed); err != nil {
		return nil, nil, fmt.Errorf("sphincs+: generate seed: %w", err)
	}
	return s.KeypairFromSeed(seed)
}

// KeypairFromSeed implements provider.Seeded.
func (s *SPHINCS) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	if err := layout.Check(layout.SPHINCS, layout.Reference, layout.Seed, seed); err != nil {
		return nil, nil, err
	}
	pk, sk, err := s.backend.KeypairFromSeed(seed)
	if err != nil {
		return nil, nil, err
	}
	if err := checkSeedKeypair(s.tr, seed, pk, sk); err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}

func checkSeedKeypair(tr translate.SPHINCS, seed, pk, sk []byte) error {
	if err := layout.Check(layout.SPHINCS, layout.Reference, layout.SecretKey, sk); err != nil {
		return err
	}
	if err := tr.CheckSeedMatchesKey(seed, pk); err != nil {
		return err
	}
	if !bytes.Equal(sk[:layout.SPHINCSSeedSize], seed) {
		return fmt.Errorf("sphincs+: secret key does not start with the seed")
	}
	if !bytes.Equal(sk[layout.SPHINCSOffsetRoot:], pk[layout.SPHINCSN:]) {
		return fmt.Errorf("sphincs+: secret key root differs from public key root")
	}
	return nil
}

// Sign implements provider.Provider.
func (s *SPHINCS) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	if err := layout.Check(layout.SPHINCS, layout.Reference, layout.SecretKey, sk); err != nil {
		return nil, err
	}
	return s.backend.Sign(msg, ctx, sk)
}

// Verify implements provider.Provider.
func (s *SPHINCS) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	subPK, err := s.tr.PublicKey(pk, layout.Reference, layout.Subject)
	if err != nil {
		return false, err
	}
	subSig, err := s.tr.Signature(sig, layout.Reference, layout.Subject)
	if err != nil {
		return false, err
	}
	return s.backend.Verify(subSig, msg, ctx, subPK)
}
