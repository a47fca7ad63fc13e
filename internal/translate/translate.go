// Package translate converts one family's artifacts between the subject
// and reference wire formats.
//
// Every conversion asserts the exact declared length of its input before
// touching it and returns a new slice; inputs are never modified. A
// conversion with no defined mapping fails with
// rounderrors.ErrTranslationUnsupported.
package translate

import (
	"bytes"
	"errors"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// ErrSeedMismatch is returned when a transmitted seed does not produce the
// transmitted public key.
var ErrSeedMismatch = errors.New("seed does not match public key")

// Artifacts is the set of artifacts exchanged in one round.
type Artifacts struct {
	PublicKey []byte
	Signature []byte
	Message   []byte
	Context   provider.Context
	// Seed is nil when no seed crossed the boundary.
	Seed []byte
	// SignedMessage is sig || msg, filled when the target format verifies
	// through a signed-message entry point.
	SignedMessage []byte
}

// Translator converts a family's artifacts between formats.
type Translator interface {
	Family() layout.Family
	PublicKey(pk []byte, from, to layout.Format) ([]byte, error)
	Signature(sig []byte, from, to layout.Format) ([]byte, error)
	Seed(seed []byte, from, to layout.Format) ([]byte, error)
	Artifacts(a Artifacts, from, to layout.Format) (Artifacts, error)
}

// For returns the translator of a family. XMSS uses the default
// parameter set.
func For(f layout.Family) (Translator, error) {
	switch f {
	case layout.Dilithium, layout.MLDSA:
		return Lattice{family: f}, nil
	case layout.SPHINCS:
		return SPHINCS{}, nil
	case layout.XMSS:
		return NewXMSS(layout.DefaultXMSS), nil
	}
	return nil, &rounderrors.TranslationError{Family: string(f), Reason: "unknown family"}
}

func checkFormats(f layout.Family, from, to layout.Format) error {
	if !from.Valid() || !to.Valid() {
		return &rounderrors.TranslationError{
			Family: string(f), From: string(from), To: string(to), Reason: "unknown format",
		}
	}
	return nil
}

// identity checks b against the declared size of kind k in both formats
// and returns a copy.
func identity(f layout.Family, k layout.Kind, b []byte, from, to layout.Format) ([]byte, error) {
	if err := checkFormats(f, from, to); err != nil {
		return nil, err
	}
	if err := layout.Check(f, from, k, b); err != nil {
		return nil, err
	}
	out := bytes.Clone(b)
	if out == nil {
		out = []byte{}
	}
	return out, layout.Check(f, to, k, out)
}

// translateCommon converts the parts of an artifact set every family
// handles the same way.
func translateCommon(t Translator, a Artifacts, from, to layout.Format) (Artifacts, error) {
	f := t.Family()
	if err := checkFormats(f, from, to); err != nil {
		return Artifacts{}, err
	}
	if err := layout.CheckMax(f, from, layout.Message, a.Message); err != nil {
		return Artifacts{}, err
	}
	ctx, err := provider.Normalize(f, a.Context)
	if err != nil {
		return Artifacts{}, err
	}

	out := Artifacts{Context: ctx, Message: bytes.Clone(a.Message)}
	if out.Message == nil {
		out.Message = []byte{}
	}
	if out.PublicKey, err = t.PublicKey(a.PublicKey, from, to); err != nil {
		return Artifacts{}, err
	}
	if out.Signature, err = t.Signature(a.Signature, from, to); err != nil {
		return Artifacts{}, err
	}
	if a.Seed != nil {
		if out.Seed, err = t.Seed(a.Seed, from, to); err != nil {
			return Artifacts{}, err
		}
	}
	return out, nil
}
