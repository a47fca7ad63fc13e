package translate

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// XMSS translates XMSS artifacts for one parameter set.
//
// Subject public keys are root || pub_seed. Reference public keys carry
// the parameter set's big-endian OID in front. Signatures are identical,
// but the reference verifier takes sig || msg as a single buffer.
type XMSS struct {
	params layout.XMSSParams
}

// NewXMSS returns a translator for parameter set p.
func NewXMSS(p layout.XMSSParams) XMSS {
	return XMSS{params: p}
}

// Params returns the parameter set the translator was built for.
func (x XMSS) Params() layout.XMSSParams { return x.params }

// Family implements Translator.
func (XMSS) Family() layout.Family { return layout.XMSS }

func (x XMSS) check(format layout.Format, k layout.Kind, b []byte) error {
	want, _ := layout.XMSSSize(x.params, format, k)
	if len(b) != want {
		return &rounderrors.LengthError{
			Family: string(layout.XMSS), Format: string(format), Artifact: string(k),
			Got: len(b), Want: want,
		}
	}
	return nil
}

// PublicKey implements Translator.
func (x XMSS) PublicKey(pk []byte, from, to layout.Format) ([]byte, error) {
	if err := checkFormats(layout.XMSS, from, to); err != nil {
		return nil, err
	}
	if err := x.check(from, layout.PublicKey, pk); err != nil {
		return nil, err
	}

	switch {
	case from == to:
		return bytes.Clone(pk), nil
	case to == layout.Reference:
		out := make([]byte, 0, layout.XMSSReferencePublicKeySize)
		out = append(out, x.params.OIDBytes()...)
		return append(out, pk...), nil
	default:
		if err := x.checkOID(pk[:layout.XMSSOIDSize], from, to); err != nil {
			return nil, err
		}
		return bytes.Clone(pk[layout.XMSSOIDSize:]), nil
	}
}

func (x XMSS) checkOID(b []byte, from, to layout.Format) error {
	oid := binary.BigEndian.Uint32(b)
	if oid == x.params.OID {
		return nil
	}
	reason := fmt.Sprintf("unknown algorithm identifier %#08x", oid)
	if p, ok := layout.LookupXMSSOID(oid); ok {
		reason = fmt.Sprintf("key is %s, want %s", p, x.params)
	}
	return &rounderrors.TranslationError{
		Family: string(layout.XMSS), From: string(from), To: string(to), Reason: reason,
	}
}

// Signature implements Translator.
func (x XMSS) Signature(sig []byte, from, to layout.Format) ([]byte, error) {
	if err := checkFormats(layout.XMSS, from, to); err != nil {
		return nil, err
	}
	if err := x.check(from, layout.Signature, sig); err != nil {
		return nil, err
	}
	return bytes.Clone(sig), nil
}

// Seed implements Translator. The exchanged seed is the same in both
// formats; use ExpandSeed for the reference seed layout.
func (x XMSS) Seed(seed []byte, from, to layout.Format) ([]byte, error) {
	if err := checkFormats(layout.XMSS, from, to); err != nil {
		return nil, err
	}
	if err := x.check(from, layout.Seed, seed); err != nil {
		return nil, err
	}
	return bytes.Clone(seed), nil
}

// Artifacts implements Translator. Translating to the reference format
// also fills SignedMessage.
func (x XMSS) Artifacts(a Artifacts, from, to layout.Format) (Artifacts, error) {
	out, err := translateCommon(x, a, from, to)
	if err != nil {
		return Artifacts{}, err
	}
	if to == layout.Reference {
		out.SignedMessage = SignedMessage(out.Signature, out.Message)
	}
	return out, nil
}

// ExpandSeed expands an exchanged seed into sk_seed || sk_prf || pub_seed
// with SHAKE-256, the way key generation does.
func (x XMSS) ExpandSeed(seed []byte) ([]byte, error) {
	if err := x.check(layout.Subject, layout.Seed, seed); err != nil {
		return nil, err
	}
	out := make([]byte, layout.XMSSExpandedSeedSize)
	sha3.ShakeSum256(out, seed)
	return out, nil
}

// ExpandedSeedFromSecretKey extracts sk_seed || sk_prf || pub_seed from a
// subject secret key.
func (x XMSS) ExpandedSeedFromSecretKey(sk []byte) ([]byte, error) {
	if err := x.check(layout.Subject, layout.SecretKey, sk); err != nil {
		return nil, err
	}
	return bytes.Clone(sk[layout.XMSSOffsetSKSeed:layout.XMSSOffsetRoot]), nil
}

// SplitExpandedSeed returns the secret seed, PRF seed and public seed of
// an expanded seed.
func (x XMSS) SplitExpandedSeed(es []byte) (skSeed, skPRF, pubSeed []byte, err error) {
	if len(es) != layout.XMSSExpandedSeedSize {
		return nil, nil, nil, &rounderrors.LengthError{
			Family: string(layout.XMSS), Format: string(layout.Reference), Artifact: string(layout.Seed),
			Got: len(es), Want: layout.XMSSExpandedSeedSize,
		}
	}
	n := layout.XMSSN
	return bytes.Clone(es[:n]), bytes.Clone(es[n : 2*n]), bytes.Clone(es[2*n:]), nil
}

// CheckExpandedSeed asserts that the published seed components are the
// expansion of seed and that the subject public key pk carries the same
// public seed.
func (x XMSS) CheckExpandedSeed(seed, pk, skSeed, skPRF, pubSeed []byte) error {
	es, err := x.ExpandSeed(seed)
	if err != nil {
		return err
	}
	if err := x.check(layout.Subject, layout.PublicKey, pk); err != nil {
		return err
	}
	want := make([]byte, 0, len(es))
	want = append(want, skSeed...)
	want = append(want, skPRF...)
	want = append(want, pubSeed...)
	if !bytes.Equal(es, want) {
		return fmt.Errorf("%w: seed components differ from expansion", ErrSeedMismatch)
	}
	if !bytes.Equal(pk[layout.XMSSN:], es[2*layout.XMSSN:]) {
		return fmt.Errorf("%w: public seed differs", ErrSeedMismatch)
	}
	return nil
}

// SignedMessage returns sig || msg with no separator.
func SignedMessage(sig, msg []byte) []byte {
	sm := make([]byte, 0, len(sig)+len(msg))
	sm = append(sm, sig...)
	return append(sm, msg...)
}

// SplitSignedMessage inverts SignedMessage given the signature length.
func SplitSignedMessage(sm []byte, sigLen int) (sig, msg []byte, err error) {
	if sigLen < 0 || len(sm) < sigLen {
		return nil, nil, &rounderrors.LengthError{
			Family: string(layout.XMSS), Format: string(layout.Reference), Artifact: "sm",
			Got: len(sm), Want: sigLen,
		}
	}
	return bytes.Clone(sm[:sigLen]), append([]byte{}, sm[sigLen:]...), nil
}
