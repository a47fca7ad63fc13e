package qrllib

import (
	"fmt"

	"github.com/theQRL/go-qrllib/crypto/dilithium"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
)

// Dilithium is the go-qrllib Dilithium5 (round 3) provider. Seeds are
// hashed with SHAKE-256 before key generation.
type Dilithium struct{}

var _ provider.Seeded = Dilithium{}

// NewDilithium returns the Dilithium provider.
func NewDilithium() Dilithium { return Dilithium{} }

func (Dilithium) Name() string          { return "go-qrllib/dilithium" }
func (Dilithium) Family() layout.Family { return layout.Dilithium }
func (Dilithium) Format() layout.Format { return layout.Subject }
func (Dilithium) SeedSize() int         { return dilithium.SEED_BYTES }

// Keypair implements provider.Provider.
func (d Dilithium) Keypair() ([]byte, []byte, error) {
	seed, err := randomSeed(dilithium.SEED_BYTES)
	if err != nil {
		return nil, nil, err
	}
	defer wipe(seed)
	return d.KeypairFromSeed(seed)
}

// KeypairFromSeed implements provider.Seeded.
func (Dilithium) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	if err := layout.Check(layout.Dilithium, layout.Subject, layout.Seed, seed); err != nil {
		return nil, nil, err
	}
	var s [dilithium.SEED_BYTES]uint8
	copy(s[:], seed)
	defer wipe(s[:])

	d, err := dilithium.NewDilithiumFromSeed(s)
	if err != nil {
		return nil, nil, fmt.Errorf("dilithium: keypair: %w", err)
	}
	defer d.Zeroize()

	pk := d.GetPK()
	sk := d.GetSK()
	return append([]byte{}, pk[:]...), append([]byte{}, sk[:]...), nil
}

// Sign implements provider.Provider.
func (Dilithium) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	if _, err := provider.Normalize(layout.Dilithium, ctx); err != nil {
		return nil, err
	}
	if err := layout.Check(layout.Dilithium, layout.Subject, layout.SecretKey, sk); err != nil {
		return nil, err
	}
	var key [dilithium.CRYPTO_SECRET_KEY_BYTES]uint8
	copy(key[:], sk)
	defer wipe(key[:])

	sig, err := dilithium.SignWithSecretKey(msg, &key)
	if err != nil {
		return nil, fmt.Errorf("dilithium: sign: %w", err)
	}
	return append([]byte{}, sig[:]...), nil
}

// Verify implements provider.Provider.
func (Dilithium) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	if _, err := provider.Normalize(layout.Dilithium, ctx); err != nil {
		return false, err
	}
	if err := layout.Check(layout.Dilithium, layout.Subject, layout.PublicKey, pk); err != nil {
		return false, err
	}
	if err := layout.Check(layout.Dilithium, layout.Subject, layout.Signature, sig); err != nil {
		return false, err
	}
	var (
		key [dilithium.CRYPTO_PUBLIC_KEY_BYTES]uint8
		s   [dilithium.CRYPTO_BYTES]uint8
	)
	copy(key[:], pk)
	copy(s[:], sig)
	return dilithium.Verify(msg, s, &key), nil
}
