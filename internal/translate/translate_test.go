package translate

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func mustFor(t *testing.T, f layout.Family) Translator {
	t.Helper()
	tr, err := For(f)
	if err != nil {
		t.Fatalf("For(%s) error = %v", f, err)
	}
	return tr
}

func TestRoundTrip(t *testing.T) {
	formats := [][2]layout.Format{
		{layout.Subject, layout.Reference},
		{layout.Reference, layout.Subject},
	}

	for _, f := range layout.Families() {
		tr := mustFor(t, f)
		for _, dir := range formats {
			from, to := dir[0], dir[1]
			t.Run(string(f)+"/"+string(from), func(t *testing.T) {
				pkSize, _ := layout.Size(f, from, layout.PublicKey)
				pk := filled(pkSize, 0xA5)
				if f == layout.XMSS && from == layout.Reference {
					copy(pk, layout.DefaultXMSS.OIDBytes())
				}
				there, err := tr.PublicKey(pk, from, to)
				if err != nil {
					t.Fatalf("PublicKey(%s->%s) error = %v", from, to, err)
				}
				back, err := tr.PublicKey(there, to, from)
				if err != nil {
					t.Fatalf("PublicKey(%s->%s) error = %v", to, from, err)
				}
				if !bytes.Equal(back, pk) {
					t.Error("public key did not survive the round trip")
				}

				sigSize, _ := layout.Size(f, from, layout.Signature)
				sig := filled(sigSize, 0x3C)
				there, err = tr.Signature(sig, from, to)
				if err != nil {
					t.Fatalf("Signature() error = %v", err)
				}
				back, _ = tr.Signature(there, to, from)
				if !bytes.Equal(back, sig) {
					t.Error("signature did not survive the round trip")
				}

				seedSize, _ := layout.Size(f, from, layout.Seed)
				seed := filled(seedSize, 0x11)
				there, err = tr.Seed(seed, from, to)
				if err != nil {
					t.Fatalf("Seed() error = %v", err)
				}
				back, _ = tr.Seed(there, to, from)
				if !bytes.Equal(back, seed) {
					t.Error("seed did not survive the round trip")
				}
			})
		}
	}
}

func TestTranslation_DoesNotAlias(t *testing.T) {
	tr := mustFor(t, layout.Dilithium)
	pk := filled(layout.DilithiumPublicKeySize, 1)
	out, err := tr.PublicKey(pk, layout.Subject, layout.Reference)
	if err != nil {
		t.Fatal(err)
	}
	out[0] = 0xFF
	if pk[0] != 1 {
		t.Error("translation must not share memory with its input")
	}
}

func TestXMSSPublicKey(t *testing.T) {
	tr := NewXMSS(layout.DefaultXMSS)
	pk := filled(layout.XMSSSubjectPublicKeySize, 0x42)

	got, err := tr.PublicKey(pk, layout.Subject, layout.Reference)
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}
	want := append([]byte{0x00, 0x00, 0x00, 0x01}, pk...)
	if !bytes.Equal(got, want) {
		t.Errorf("PublicKey() = %x..., want %x...", got[:8], want[:8])
	}
	if len(got) != len(pk)+4 {
		t.Errorf("len = %d, want %d", len(got), len(pk)+4)
	}
}

func TestXMSSPublicKey_Short(t *testing.T) {
	tr := NewXMSS(layout.DefaultXMSS)
	_, err := tr.PublicKey(filled(63, 0x42), layout.Subject, layout.Reference)
	if !errors.Is(err, rounderrors.ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}
	var le *rounderrors.LengthError
	if !errors.As(err, &le) || le.Got != 63 || le.Want != 64 {
		t.Errorf("LengthError = %+v", le)
	}
}

func TestXMSSPublicKey_WrongOID(t *testing.T) {
	tr := NewXMSS(layout.DefaultXMSS)

	tests := []struct {
		name string
		oid  []byte
	}{
		{"other parameter set", []byte{0, 0, 0, 0x02}},
		{"unknown identifier", []byte{0xDE, 0xAD, 0xBE, 0xEF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pk := append(append([]byte{}, tt.oid...), filled(64, 7)...)
			_, err := tr.PublicKey(pk, layout.Reference, layout.Subject)
			if !errors.Is(err, rounderrors.ErrTranslationUnsupported) {
				t.Errorf("error = %v, want ErrTranslationUnsupported", err)
			}
		})
	}
}

func TestXMSSOtherParameterSet(t *testing.T) {
	p, _ := layout.LookupXMSS(layout.XMSSSHAKE256, 16)
	tr := NewXMSS(p)
	got, err := tr.PublicKey(filled(64, 1), layout.Subject, layout.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[:4], []byte{0, 0, 0, 0x11}) {
		t.Errorf("OID = %x, want 00000011", got[:4])
	}
	if _, err := tr.Signature(filled(2500, 1), layout.Subject, layout.Reference); !errors.Is(err, rounderrors.ErrLengthMismatch) {
		t.Errorf("height-10 signature for a height-16 set: error = %v", err)
	}
}

func TestSignedMessage(t *testing.T) {
	sig := filled(layout.XMSSSignatureSize(10), 0x5A)

	for _, msg := range [][]byte{{}, []byte("test"), filled(layout.MaxMessageBytes, 0xEE)} {
		sm := SignedMessage(sig, msg)
		if len(sm) != len(sig)+len(msg) {
			t.Fatalf("len(sm) = %d, want %d", len(sm), len(sig)+len(msg))
		}
		gotSig, gotMsg, err := SplitSignedMessage(sm, len(sig))
		if err != nil {
			t.Fatalf("SplitSignedMessage() error = %v", err)
		}
		if !bytes.Equal(gotSig, sig) || !bytes.Equal(gotMsg, msg) {
			t.Error("split(concat(sig, msg)) != (sig, msg)")
		}
	}

	if _, _, err := SplitSignedMessage(make([]byte, 10), 11); !errors.Is(err, rounderrors.ErrLengthMismatch) {
		t.Errorf("short sm error = %v", err)
	}
}

func TestXMSSArtifacts(t *testing.T) {
	tr := NewXMSS(layout.DefaultXMSS)
	in := Artifacts{
		PublicKey: filled(64, 1),
		Signature: filled(2500, 2),
		Message:   []byte("test"),
		Seed:      filled(48, 3),
	}

	out, err := tr.Artifacts(in, layout.Subject, layout.Reference)
	if err != nil {
		t.Fatalf("Artifacts() error = %v", err)
	}
	if len(out.PublicKey) != 68 {
		t.Errorf("pk len = %d", len(out.PublicKey))
	}
	if !bytes.Equal(out.SignedMessage, SignedMessage(in.Signature, in.Message)) {
		t.Error("SignedMessage should be sig || msg")
	}

	back, err := tr.Artifacts(out, layout.Reference, layout.Subject)
	if err != nil {
		t.Fatalf("Artifacts() back error = %v", err)
	}
	if back.SignedMessage != nil {
		t.Error("subject format verifies with separate arguments")
	}
	if !bytes.Equal(back.PublicKey, in.PublicKey) {
		t.Error("pk did not survive")
	}
}

func TestXMSSExpandSeed(t *testing.T) {
	tr := NewXMSS(layout.DefaultXMSS)
	seed := filled(48, 9)
	es, err := tr.ExpandSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if len(es) != layout.XMSSExpandedSeedSize {
		t.Fatalf("len = %d", len(es))
	}
	skSeed, skPRF, pubSeed, err := tr.SplitExpandedSeed(es)
	if err != nil {
		t.Fatal(err)
	}

	pk := append(filled(32, 0), pubSeed...)
	if err := tr.CheckExpandedSeed(seed, pk, skSeed, skPRF, pubSeed); err != nil {
		t.Errorf("CheckExpandedSeed() error = %v", err)
	}

	bad := bytes.Clone(skPRF)
	bad[0] ^= 1
	if err := tr.CheckExpandedSeed(seed, pk, skSeed, bad, pubSeed); !errors.Is(err, ErrSeedMismatch) {
		t.Errorf("tampered component error = %v", err)
	}
	pk[40] ^= 1
	if err := tr.CheckExpandedSeed(seed, pk, skSeed, skPRF, pubSeed); !errors.Is(err, ErrSeedMismatch) {
		t.Errorf("tampered pk error = %v", err)
	}

	sk := make([]byte, layout.XMSSSecretKeySize)
	copy(sk[layout.XMSSOffsetSKSeed:], es)
	fromSK, err := tr.ExpandedSeedFromSecretKey(sk)
	if err != nil || !bytes.Equal(fromSK, es) {
		t.Errorf("ExpandedSeedFromSecretKey() = %x, %v", fromSK, err)
	}
}

// The exchanged XMSS seed is the same 48 bytes in both formats; the 96-byte
// expanded seed travels as separate components.
func TestXMSSSeed_SameInBothFormats(t *testing.T) {
	tr := NewXMSS(layout.DefaultXMSS)
	seed := filled(layout.XMSSSeedSize, 3)

	for _, dir := range [][2]layout.Format{
		{layout.Subject, layout.Reference},
		{layout.Reference, layout.Subject},
	} {
		got, err := tr.Seed(seed, dir[0], dir[1])
		if err != nil {
			t.Fatalf("Seed(%s to %s) error = %v", dir[0], dir[1], err)
		}
		if !bytes.Equal(got, seed) {
			t.Errorf("Seed(%s to %s) = %x, want %x", dir[0], dir[1], got, seed)
		}
	}

	es, err := tr.ExpandSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Seed(es, layout.Reference, layout.Subject); !errors.Is(err, rounderrors.ErrLengthMismatch) {
		t.Errorf("Seed(expanded) error = %v, want ErrLengthMismatch", err)
	}
	if got, _ := layout.Size(layout.XMSS, layout.Reference, layout.Seed); got != layout.XMSSSeedSize {
		t.Errorf("reference seed size = %d, want %d", got, layout.XMSSSeedSize)
	}
}

func TestSPHINCSSeed(t *testing.T) {
	var s SPHINCS
	seed := make([]byte, layout.SPHINCSSeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	skSeed, skPRF, pubSeed, err := s.SplitSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if skSeed[0] != 0 || skPRF[0] != 32 || pubSeed[0] != 64 {
		t.Errorf("components start at %d %d %d", skSeed[0], skPRF[0], pubSeed[0])
	}

	pk := append(bytes.Clone(pubSeed), filled(32, 0xFF)...)
	if err := s.CheckSeedMatchesKey(seed, pk); err != nil {
		t.Errorf("CheckSeedMatchesKey() error = %v", err)
	}
	pk[0] ^= 1
	if err := s.CheckSeedMatchesKey(seed, pk); !errors.Is(err, ErrSeedMismatch) {
		t.Errorf("error = %v, want ErrSeedMismatch", err)
	}
	if _, _, _, err := s.SplitSeed(seed[:95]); !errors.Is(err, rounderrors.ErrLengthMismatch) {
		t.Errorf("short seed error = %v", err)
	}
}

func TestLatticeContext(t *testing.T) {
	base := Artifacts{
		PublicKey: filled(layout.MLDSAPublicKeySize, 1),
		Signature: filled(layout.MLDSASignatureSize, 2),
		Message:   nil,
	}

	t.Run("absent becomes empty for ML-DSA", func(t *testing.T) {
		out, err := mustFor(t, layout.MLDSA).Artifacts(base, layout.Subject, layout.Reference)
		if err != nil {
			t.Fatal(err)
		}
		if !out.Context.IsSet() || out.Context.Len() != 0 {
			t.Errorf("Context = %v, want explicit empty", out.Context)
		}
		if out.Message == nil || len(out.Message) != 0 {
			t.Error("zero-length message must be preserved as a valid empty message")
		}
	})

	t.Run("ML-DSA keeps context", func(t *testing.T) {
		in := base
		in.Context = provider.NewContext([]byte("ctx"))
		out, err := mustFor(t, layout.MLDSA).Artifacts(in, layout.Subject, layout.Reference)
		if err != nil {
			t.Fatal(err)
		}
		if string(out.Context.Bytes()) != "ctx" {
			t.Errorf("Context = %v", out.Context)
		}
	})

	t.Run("Dilithium rejects context", func(t *testing.T) {
		in := Artifacts{
			PublicKey: filled(layout.DilithiumPublicKeySize, 1),
			Signature: filled(layout.DilithiumSignatureSize, 2),
			Context:   provider.NewContext([]byte("ctx")),
		}
		_, err := mustFor(t, layout.Dilithium).Artifacts(in, layout.Subject, layout.Reference)
		if !errors.Is(err, rounderrors.ErrContextUnsupported) {
			t.Errorf("error = %v, want ErrContextUnsupported", err)
		}
		if !errors.Is(err, rounderrors.ErrTranslationUnsupported) {
			t.Error("ErrContextUnsupported should also match ErrTranslationUnsupported")
		}
	})

	t.Run("oversized context", func(t *testing.T) {
		in := base
		in.Context = provider.NewContext(filled(256, 'c'))
		_, err := mustFor(t, layout.MLDSA).Artifacts(in, layout.Subject, layout.Reference)
		if !errors.Is(err, rounderrors.ErrLengthMismatch) {
			t.Errorf("error = %v, want ErrLengthMismatch", err)
		}
	})
}

func TestUnsupported(t *testing.T) {
	if _, err := For(layout.Family("falcon")); !errors.Is(err, rounderrors.ErrTranslationUnsupported) {
		t.Errorf("For(falcon) error = %v", err)
	}
	tr := mustFor(t, layout.Dilithium)
	_, err := tr.PublicKey(filled(layout.DilithiumPublicKeySize, 0), layout.Format("pem"), layout.Reference)
	if !errors.Is(err, rounderrors.ErrTranslationUnsupported) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestLengthMismatch(t *testing.T) {
	for _, f := range layout.Families() {
		tr := mustFor(t, f)
		pkSize, _ := layout.Size(f, layout.Subject, layout.PublicKey)
		if _, err := tr.PublicKey(make([]byte, pkSize+1), layout.Subject, layout.Reference); !errors.Is(err, rounderrors.ErrLengthMismatch) {
			t.Errorf("%s: long pk error = %v", f, err)
		}
		sigSize, _ := layout.Size(f, layout.Subject, layout.Signature)
		if _, err := tr.Signature(make([]byte, sigSize-1), layout.Subject, layout.Reference); !errors.Is(err, rounderrors.ErrLengthMismatch) {
			t.Errorf("%s: short sig error = %v", f, err)
		}
	}
}

func BenchmarkXMSSArtifacts(b *testing.B) {
	tr := NewXMSS(layout.DefaultXMSS)
	in := Artifacts{PublicKey: filled(64, 1), Signature: filled(2500, 2), Message: []byte("test")}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tr.Artifacts(in, layout.Subject, layout.Reference)
	}
}
