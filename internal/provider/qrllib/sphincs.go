package qrllib

import (
	"bytes"
	"fmt"

	"github.com/theQRL/go-qrllib/crypto/sphincsplus_256s"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// SPHINCS is the go-qrllib SPHINCS+-SHAKE-256s-robust provider. The
// secret key is seed || root, so any well-formed secret key can be
// rebuilt into a signing instance.
type SPHINCS struct{}

var _ provider.Seeded = SPHINCS{}

// NewSPHINCS returns the SPHINCS+ provider.
func NewSPHINCS() SPHINCS { return SPHINCS{} }

func (SPHINCS) Name() string          { return "go-qrllib/sphincsplus_256s" }
func (SPHINCS) Family() layout.Family { return layout.SPHINCS }
func (SPHINCS) Format() layout.Format { return layout.Subject }
func (SPHINCS) SeedSize() int         { return sphincsplus_256s.CRYPTO_SEEDBYTES }

// Keypair implements provider.Provider.
func (s SPHINCS) Keypair() ([]byte, []byte, error) {
	seed, err := randomSeed(sphincsplus_256s.CRYPTO_SEEDBYTES)
	if err != nil {
		return nil, nil, err
	}
	defer wipe(seed)
	return s.KeypairFromSeed(seed)
}

// KeypairFromSeed implements provider.Seeded.
func (SPHINCS) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	inst, err := sphincsFromSeed(seed)
	if err != nil {
		return nil, nil, err
	}
	defer inst.Zeroize()
	pk := inst.GetPK()
	sk := inst.GetSK()
	return append([]byte{}, pk[:]...), append([]byte{}, sk[:]...), nil
}

func sphincsFromSeed(seed []byte) (*sphincsplus_256s.SphincsPlus256s, error) {
	if err := layout.Check(layout.SPHINCS, layout.Subject, layout.Seed, seed); err != nil {
		return nil, err
	}
	var s [sphincsplus_256s.CRYPTO_SEEDBYTES]uint8
	copy(s[:], seed)
	defer wipe(s[:])

	inst, err := sphincsplus_256s.NewSphincsPlus256sFromSeed(s)
	if err != nil {
		return nil, fmt.Errorf("sphincs+: keypair: %w", err)
	}
	return inst, nil
}

// Sign implements provider.Provider. Signing is randomized.
func (SPHINCS) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	if _, err := provider.Normalize(layout.SPHINCS, ctx); err != nil {
		return nil, err
	}
	if err := layout.Check(layout.SPHINCS, layout.Subject, layout.SecretKey, sk); err != nil {
		return nil, err
	}
	inst, err := sphincsFromSeed(sk[:layout.SPHINCSSeedSize])
	if err != nil {
		return nil, err
	}
	defer inst.Zeroize()

	rebuilt := inst.GetSK()
	if !bytes.Equal(rebuilt[:], sk) {
		wipe(rebuilt[:])
		return nil, fmt.Errorf("sphincs+: sign: %w: root does not match seed", rounderrors.ErrUnknownSecretKey)
	}
	wipe(rebuilt[:])

	sig, err := inst.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("sphincs+: sign: %w", err)
	}
	return append([]byte{}, sig[:]...), nil
}

// Verify implements provider.Provider.
func (SPHINCS) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	if _, err := provider.Normalize(layout.SPHINCS, ctx); err != nil {
		return false, err
	}
	if err := layout.Check(layout.SPHINCS, layout.Subject, layout.PublicKey, pk); err != nil {
		return false, err
	}
	if err := layout.Check(layout.SPHINCS, layout.Subject, layout.Signature, sig); err != nil {
		return false, err
	}
	var (
		key [sphincsplus_256s.CRYPTO_PUBLICKEYBYTES]uint8
		s   [sphincsplus_256s.CRYPTO_BYTES]uint8
	)
	copy(key[:], pk)
	copy(s[:], sig)
	return sphincsplus_256s.Verify(msg, s, &key), nil
}
