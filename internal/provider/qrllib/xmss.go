package qrllib

import (
	"fmt"

	"github.com/theQRL/go-qrllib/crypto/xmss"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// XMSS is the go-qrllib XMSS provider for one parameter set.
type XMSS struct {
	params layout.XMSSParams
	hash   xmss.HashFunction
	ring   *keyring[*xmss.XMSS]
}

var (
	_ provider.Seeded   = (*XMSS)(nil)
	_ provider.Releaser = (*XMSS)(nil)
)

// NewXMSS returns an XMSS provider for p.
func NewXMSS(p layout.XMSSParams) (*XMSS, error) {
	hf, err := hashFunction(p.Hash)
	if err != nil {
		return nil, err
	}
	if _, ok := layout.LookupXMSS(p.Hash, p.Height); !ok {
		return nil, &rounderrors.TranslationError{
			Family: string(layout.XMSS), Reason: fmt.Sprintf("unsupported parameter set %s", p),
		}
	}
	return &XMSS{params: p, hash: hf, ring: newKeyring[*xmss.XMSS]()}, nil
}

func hashFunction(h layout.XMSSHash) (xmss.HashFunction, error) {
	switch h {
	case layout.XMSSSHA2:
		return xmss.SHA2_256, nil
	case layout.XMSSSHAKE128:
		return xmss.SHAKE_128, nil
	case layout.XMSSSHAKE256:
		return xmss.SHAKE_256, nil
	}
	return 0, &rounderrors.TranslationError{
		Family: string(layout.XMSS), Reason: fmt.Sprintf("unknown hash function %q", h),
	}
}

func (*XMSS) Name() string          { return "go-qrllib/xmss" }
func (*XMSS) Family() layout.Family { return layout.XMSS }
func (*XMSS) Format() layout.Format { return layout.Subject }
func (*XMSS) SeedSize() int         { return layout.XMSSSeedSize }

// Params returns the provider's parameter set.
func (x *XMSS) Params() layout.XMSSParams { return x.params }

func (x *XMSS) check(k layout.Kind, b []byte) error {
	want, _ := layout.XMSSSize(x.params, layout.Subject, k)
	if len(b) != want {
		return &rounderrors.LengthError{
			Family: string(layout.XMSS), Format: string(layout.Subject), Artifact: string(k),
			Got: len(b), Want: want,
		}
	}
	return nil
}

// Keypair implements provider.Provider.
func (x *XMSS) Keypair() ([]byte, []byte, error) {
	seed, err := randomSeed(layout.XMSSSeedSize)
	if err != nil {
		return nil, nil, err
	}
	defer wipe(seed)
	return x.KeypairFromSeed(seed)
}

// KeypairFromSeed implements provider.Seeded. The public key is
// root || pub_seed.
func (x *XMSS) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	if err := x.check(layout.Seed, seed); err != nil {
		return nil, nil, err
	}
	tree, err := xmss.InitializeTree(xmss.Height(x.params.Height), x.hash, append([]byte{}, seed...))
	if err != nil {
		return nil, nil, fmt.Errorf("xmss: keypair: %w", err)
	}

	pk := make([]byte, 0, layout.XMSSSubjectPublicKeySize)
	pk = append(pk, tree.GetRoot()...)
	pk = append(pk, tree.GetPKSeed()...)
	sk := append([]byte{}, tree.GetSK()...)
	x.ring.put(sk, tree)
	return pk, sk, nil
}

// Sign implements provider.Provider. Each call consumes one leaf of the
// tree that sk was generated with.
func (x *XMSS) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	if _, err := provider.Normalize(layout.XMSS, ctx); err != nil {
		return nil, err
	}
	if err := x.check(layout.SecretKey, sk); err != nil {
		return nil, err
	}
	tree, err := x.ring.get(sk)
	if err != nil {
		return nil, fmt.Errorf("xmss: sign: %w", err)
	}
	sig, err := tree.Sign(msg)
	if err != nil {
		return nil, fmt.Errorf("xmss: sign: %w", err)
	}
	return sig, nil
}

// Verify implements provider.Provider.
func (x *XMSS) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	if _, err := provider.Normalize(layout.XMSS, ctx); err != nil {
		return false, err
	}
	if err := x.check(layout.PublicKey, pk); err != nil {
		return false, err
	}
	if err := x.check(layout.Signature, sig); err != nil {
		return false, err
	}
	return xmss.Verify(x.hash, msg, sig, pk), nil
}

// Release implements provider.Releaser.
func (x *XMSS) Release(sk []byte) {
	x.ring.release(sk)
}
