package qrllib

import (
	"fmt"

	"github.com/theQRL/go-qrllib/crypto/ml_dsa_87"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
)

// MLDSA is the go-qrllib ML-DSA-87 provider.
type MLDSA struct {
	ring *keyring[*ml_dsa_87.MLDSA87]
}

var (
	_ provider.Seeded   = (*MLDSA)(nil)
	_ provider.Releaser = (*MLDSA)(nil)
)

// NewMLDSA returns an ML-DSA-87 provider with an empty keyring.
func NewMLDSA() *MLDSA {
	return &MLDSA{ring: newKeyring[*ml_dsa_87.MLDSA87]()}
}

func (*MLDSA) Name() string          { return "go-qrllib/ml_dsa_87" }
func (*MLDSA) Family() layout.Family { return layout.MLDSA }
func (*MLDSA) Format() layout.Format { return layout.Subject }
func (*MLDSA) SeedSize() int         { return ml_dsa_87.SEED_BYTES }

// Keypair implements provider.Provider.
func (m *MLDSA) Keypair() ([]byte, []byte, error) {
	seed, err := randomSeed(ml_dsa_87.SEED_BYTES)
	if err != nil {
		return nil, nil, err
	}
	defer wipe(seed)
	return m.KeypairFromSeed(seed)
}

// KeypairFromSeed implements provider.Seeded.
func (m *MLDSA) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	if err := layout.Check(layout.MLDSA, layout.Subject, layout.Seed, seed); err != nil {
		return nil, nil, err
	}
	var s [ml_dsa_87.SEED_BYTES]uint8
	copy(s[:], seed)
	defer wipe(s[:])

	d, err := ml_dsa_87.NewMLDSA87FromSeed(s)
	if err != nil {
		return nil, nil, fmt.Errorf("ml-dsa-87: keypair: %w", err)
	}
	pk := d.GetPK()
	sk := d.GetSK()
	skOut := append([]byte{}, sk[:]...)
	m.ring.put(skOut, d)
	return append([]byte{}, pk[:]...), skOut, nil
}

// Sign implements provider.Provider. Only secret keys created by this
// provider can sign.
func (m *MLDSA) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	c, err := provider.Normalize(layout.MLDSA, ctx)
	if err != nil {
		return nil, err
	}
	if err := layout.Check(layout.MLDSA, layout.Subject, layout.SecretKey, sk); err != nil {
		return nil, err
	}
	d, err := m.ring.get(sk)
	if err != nil {
		return nil, fmt.Errorf("ml-dsa-87: sign: %w", err)
	}
	sig, err := d.Sign(c.Bytes(), msg)
	if err != nil {
		return nil, fmt.Errorf("ml-dsa-87: sign: %w", err)
	}
	return append([]byte{}, sig[:]...), nil
}

// Verify implements provider.Provider.
func (*MLDSA) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	c, err := provider.Normalize(layout.MLDSA, ctx)
	if err != nil {
		return false, err
	}
	if err := layout.Check(layout.MLDSA, layout.Subject, layout.PublicKey, pk); err != nil {
		return false, err
	}
	if err := layout.Check(layout.MLDSA, layout.Subject, layout.Signature, sig); err != nil {
		return false, err
	}
	var (
		key [ml_dsa_87.CRYPTO_PUBLIC_KEY_BYTES]uint8
		s   [ml_dsa_87.CRYPTO_BYTES]uint8
	)
	copy(key[:], pk)
	copy(s[:], sig)
	return ml_dsa_87.Verify(c.Bytes(), msg, s, &key), nil
}

// Release implements provider.Releaser.
func (m *MLDSA) Release(sk []byte) {
	m.ring.release(sk)
}
