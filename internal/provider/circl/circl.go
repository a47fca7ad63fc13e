// Package circl provides reference-side providers for the lattice
// families, backed by github.com/cloudflare/circl.
package circl

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/dilithium/mode5"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
)

// randReader is the random source used for key generation.
// It defaults to crypto/rand but can be overridden for testing.
var randReader io.Reader = rand.Reader

// Provider adapts a circl sign.Scheme to provider.Provider.
type Provider struct {
	scheme sign.Scheme
	family layout.Family
}

var _ provider.Seeded = (*Provider)(nil)

func newProvider(scheme sign.Scheme, f layout.Family) (*Provider, error) {
	if scheme == nil {
		return nil, errors.New("circl: scheme unavailable")
	}
	return &Provider{scheme: scheme, family: f}, nil
}

// NewDilithium returns the circl Dilithium5 (round 3) provider.
func NewDilithium() (*Provider, error) {
	return newProvider(mode5.Scheme(), layout.Dilithium)
}

// NewMLDSA returns the circl ML-DSA-87 provider.
func NewMLDSA() (*Provider, error) {
	return newProvider(mldsa87.Scheme(), layout.MLDSA)
}

func (p *Provider) Name() string          { return "circl/" + p.scheme.Name() }
func (p *Provider) Family() layout.Family { return p.family }
func (p *Provider) Format() layout.Format { return layout.Reference }
func (p *Provider) SeedSize() int         { return p.scheme.SeedSize() }

// Keypair implements provider.Provider. A seed is read from the random
// source and expanded with the scheme's own key derivation.
func (p *Provider) Keypair() ([]byte, []byte, error) {
	seed := make([]byte, p.scheme.SeedSize())
	defer wipe(seed)
	if _, err := io.ReadFull(randReader, seed); err != nil {
		return nil, nil, fmt.Errorf("circl: generate seed: %w", err)
	}
	return p.KeypairFromSeed(seed)
}

// KeypairFromSeed implements provider.Seeded.
func (p *Provider) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	if err := layout.Check(p.family, layout.Reference, layout.Seed, seed); err != nil {
		return nil, nil, err
	}
	seedCopy := append([]byte{}, seed...)
	pk, sk := p.scheme.DeriveKey(seedCopy)
	wipe(seedCopy)

	pubBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("circl: marshal public key: %w", err)
	}
	privBytes, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("circl: marshal private key: %w", err)
	}
	return append([]byte{}, pubBytes...), append([]byte{}, privBytes...), nil
}

func (p *Provider) opts(ctx provider.Context) (*sign.SignatureOpts, error) {
	c, err := provider.Normalize(p.family, ctx)
	if err != nil {
		return nil, err
	}
	if !c.IsSet() || !p.scheme.SupportsContext() {
		return nil, nil
	}
	return &sign.SignatureOpts{Context: string(c.Bytes())}, nil
}

// Sign implements provider.Provider.
func (p *Provider) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	opts, err := p.opts(ctx)
	if err != nil {
		return nil, err
	}
	if err := layout.Check(p.family, layout.Reference, layout.SecretKey, sk); err != nil {
		return nil, err
	}
	priv, err := p.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("circl: invalid private key: %w", err)
	}
	sig := p.scheme.Sign(priv, msg, opts)
	return append([]byte{}, sig...), nil
}

// Verify implements provider.Provider.
func (p *Provider) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	opts, err := p.opts(ctx)
	if err != nil {
		return false, err
	}
	if err := layout.Check(p.family, layout.Reference, layout.PublicKey, pk); err != nil {
		return false, err
	}
	if err := layout.Check(p.family, layout.Reference, layout.Signature, sig); err != nil {
		return false, err
	}
	pub, err := p.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return false, fmt.Errorf("circl: invalid public key: %w", err)
	}
	return p.scheme.Verify(pub, msg, sig, opts), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
