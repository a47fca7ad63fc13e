package reference

import (
	"fmt"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
	"github.com/pqinterop/crossverify/internal/translate"
)

// XMSS is the reference-format XMSS provider. Public keys are
// OID || root || pub_seed and verification goes through Open, which takes
// the signature and message as one sig || msg buffer.
type XMSS struct {
	backend provider.Seeded
	tr      translate.XMSS
}

var (
	_ provider.Seeded   = (*XMSS)(nil)
	_ provider.Opener   = (*XMSS)(nil)
	_ provider.Releaser = (*XMSS)(nil)
)

// NewXMSS wraps an XMSS backend for parameter set p.
func NewXMSS(backend provider.Seeded, p layout.XMSSParams) (*XMSS, error) {
	if backend == nil || backend.Family() != layout.XMSS {
		return nil, &rounderrors.TranslationError{Family: string(layout.XMSS), Reason: "backend is not an XMSS provider"}
	}
	if _, ok := layout.LookupXMSS(p.Hash, p.Height); !ok {
		return nil, &rounderrors.TranslationError{Family: string(layout.XMSS), Reason: fmt.Sprintf("unsupported parameter set %s", p)}
	}
	return &XMSS{backend: backend, tr: translate.NewXMSS(p)}, nil
}

func (x *XMSS) Name() string          { return "reference/xmss via " + x.backend.Name() }
func (x *XMSS) Family() layout.Family { return layout.XMSS }
func (x *XMSS) Format() layout.Format { return layout.Reference }
func (x *XMSS) SeedSize() int         { return layout.XMSSSeedSize }

// Keypair implements provider.Provider.
func (x *XMSS) Keypair() ([]byte, []byte, error) {
	pk, sk, err := x.backend.Keypair()
	if err != nil {
		return nil, nil, err
	}
	return x.wrap(pk, sk)
}

// KeypairFromSeed implements provider.Seeded.
func (x *XMSS) KeypairFromSeed(seed []byte) ([]byte, []byte, error) {
	pk, sk, err := x.backend.KeypairFromSeed(seed)
	if err != nil {
		return nil, nil, err
	}
	return x.wrap(pk, sk)
}

func (x *XMSS) wrap(pk, sk []byte) ([]byte, []byte, error) {
	refPK, err := x.tr.PublicKey(pk, layout.Subject, layout.Reference)
	if err != nil {
		return nil, nil, err
	}
	return refPK, sk, nil
}

// Sign implements provider.Provider.
func (x *XMSS) Sign(msg []byte, ctx provider.Context, sk []byte) ([]byte, error) {
	return x.backend.Sign(msg, ctx, sk)
}

// Verify implements provider.Provider.
func (x *XMSS) Verify(sig, msg []byte, ctx provider.Context, pk []byte) (bool, error) {
	subPK, err := x.tr.PublicKey(pk, layout.Reference, layout.Subject)
	if err != nil {
		return false, err
	}
	subSig, err := x.tr.Signature(sig, layout.Reference, layout.Subject)
	if err != nil {
		return false, err
	}
	return x.backend.Verify(subSig, msg, ctx, subPK)
}

// Open implements provider.Opener. The OID of pk must match the
// configured parameter set.
func (x *XMSS) Open(sm []byte, ctx provider.Context, pk []byte) (bool, error) {
	sig, msg, err := translate.SplitSignedMessage(sm, x.tr.Params().SignatureSize())
	if err != nil {
		return false, err
	}
	if err := layout.CheckMax(layout.XMSS, layout.Reference, layout.Message, msg); err != nil {
		return false, err
	}
	return x.Verify(sig, msg, ctx, pk)
}

// Release implements provider.Releaser.
func (x *XMSS) Release(sk []byte) {
	if r, ok := x.backend.(provider.Releaser); ok {
		r.Release(sk)
	}
}
