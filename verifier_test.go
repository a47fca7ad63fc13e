package crossverify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pqinterop/crossverify/internal/blob"
	"github.com/pqinterop/crossverify/internal/exchange"
)

func newMemVerifier(t *testing.T, opts ...Option) (*Verifier, *blob.FileChannel) {
	t.Helper()
	ch := blob.NewMemChannel()
	v, err := New(append([]Option{WithChannel(ch)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	return v, ch
}

func TestNew_Defaults(t *testing.T) {
	v, err := New(WithChannelURI("mem://"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer v.Close()

	got := v.Families()
	if len(got) != len(Families()) {
		t.Errorf("Families() = %v, want %v", got, Families())
	}
	if n := len(v.Providers()); n != 2*len(Families()) {
		t.Errorf("Providers() has %d entries, want %d", n, 2*len(Families()))
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"message too long", []Option{WithMessage(make([]byte, MaxMessageBytes+1))}, ErrLengthMismatch},
		{"unknown xmss set", []Option{WithXMSSParams(XMSSParams{Hash: "SHA2", Height: 12})}, ErrTranslationUnsupported},
		{"unknown channel scheme", []Option{WithChannelURI("ftp://example.com")}, blob.ErrUnsupportedScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRoundTrip_MLDSA(t *testing.T) {
	v, _ := newMemVerifier(t, WithMessage([]byte("test")))
	ctx := context.Background()

	for _, producer := range []Side{Subject, Reference} {
		t.Run(string(producer), func(t *testing.T) {
			reports, err := v.RoundTrip(ctx, MLDSA, producer)
			if err != nil {
				t.Fatalf("RoundTrip() error = %v", err)
			}
			if len(reports) != 2 {
				t.Fatalf("RoundTrip() returned %d reports, want 2", len(reports))
			}
			if reports[0].Role != exchange.Producer || reports[0].Side != producer {
				t.Errorf("first report = %s/%s, want producer/%s", reports[0].Role, reports[0].Side, producer)
			}
			if reports[1].Side != producer.Other() || !reports[1].Passed() {
				t.Errorf("consumer report = %s passed=%v", reports[1].Side, reports[1].Passed())
			}
		})
	}
}

func TestRoundTrip_CorruptedSignature(t *testing.T) {
	v, ch := newMemVerifier(t)
	ctx := context.Background()

	if _, err := v.Produce(ctx, Dilithium, Subject); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	sig, err := ch.Get(ctx, "dilithium_sig", 1<<16)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	sig[100] ^= 0x04
	if err := ch.Put(ctx, "dilithium_sig", sig); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	r, err := v.Consume(ctx, Dilithium, Reference)
	if !errors.Is(err, ErrCrossVerificationFailed) {
		t.Fatalf("Consume() error = %v, want ErrCrossVerificationFailed", err)
	}
	var ve *VerificationError
	if !errors.As(err, &ve) || ve.Stage != "cross" {
		t.Errorf("Consume() error = %#v, want cross VerificationError", err)
	}
	if r.Passed() {
		t.Error("report passed")
	}
}

func TestConsume_NothingPublished(t *testing.T) {
	v, _ := newMemVerifier(t)
	_, err := v.Consume(context.Background(), XMSS, Reference)
	if !errors.Is(err, ErrArtifactUnavailable) {
		t.Errorf("Consume() error = %v, want ErrArtifactUnavailable", err)
	}
}

func TestProduce_ContextOnDilithium(t *testing.T) {
	v, _ := newMemVerifier(t, WithContext([]byte("ctx")))
	_, err := v.Produce(context.Background(), Dilithium, Subject)
	if !errors.Is(err, ErrContextUnsupported) {
		t.Errorf("Produce() error = %v, want ErrContextUnsupported", err)
	}
}

func TestProduce_MasterSeed(t *testing.T) {
	ctx := context.Background()
	pk := func(opts ...Option) []byte {
		v, ch := newMemVerifier(t, opts...)
		if _, err := v.Produce(ctx, Dilithium, Subject); err != nil {
			t.Fatalf("Produce() error = %v", err)
		}
		b, err := ch.Get(ctx, "dilithium_pk", 1<<16)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		return b
	}

	counting := pk()
	if !bytes.Equal(counting, pk()) {
		t.Error("counting seed is not deterministic")
	}
	derived := pk(WithMasterSeed([]byte("ci secret")))
	if bytes.Equal(counting, derived) {
		t.Error("master seed did not change the key")
	}
	if !bytes.Equal(derived, pk(WithMasterSeed([]byte("ci secret")))) {
		t.Error("master seed is not deterministic")
	}
}

func TestUnknownFamily(t *testing.T) {
	v, _ := newMemVerifier(t)
	_, err := v.Produce(context.Background(), Family("rainbow"), Subject)
	if !errors.Is(err, ErrTranslationUnsupported) {
		t.Errorf("Produce() error = %v, want ErrTranslationUnsupported", err)
	}
}

func TestRunAll_Lattice(t *testing.T) {
	m := NewMetrics()
	v, _ := newMemVerifier(t, WithMetrics(m), WithParallelism(2))

	reports, err := v.RunAll(context.Background(), Dilithium, MLDSA)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(reports) != 8 {
		t.Fatalf("RunAll() returned %d reports, want 8", len(reports))
	}
	for _, r := range reports {
		if !r.Passed() {
			t.Errorf("%s %s %s failed: %s", r.Family, r.Side, r.Role, r.Error)
		}
	}
	if reports[0].Family != Dilithium || reports[4].Family != MLDSA {
		t.Errorf("reports not in family order: %s, %s", reports[0].Family, reports[4].Family)
	}
}

func TestRunAll_JoinsFailures(t *testing.T) {
	v, _ := newMemVerifier(t, WithContext([]byte("x")))

	reports, err := v.RunAll(context.Background(), Dilithium, MLDSA)
	if !errors.Is(err, ErrContextUnsupported) {
		t.Fatalf("RunAll() error = %v, want ErrContextUnsupported", err)
	}
	if !strings.Contains(err.Error(), "dilithium subject to reference") {
		t.Errorf("error does not name the failed direction: %v", err)
	}
	// ML-DSA accepts the context and still runs both directions.
	passed := 0
	for _, r := range reports {
		if r.Family == MLDSA && r.Passed() {
			passed++
		}
	}
	if passed != 4 {
		t.Errorf("%d passing ML-DSA reports, want 4", passed)
	}
}

func TestClose(t *testing.T) {
	v, _ := newMemVerifier(t)
	if err := v.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := v.Produce(context.Background(), MLDSA, Subject); !errors.Is(err, ErrVerifierClosed) {
		t.Errorf("Produce() after Close error = %v, want ErrVerifierClosed", err)
	}
	if _, err := v.RunAll(context.Background()); !errors.Is(err, ErrVerifierClosed) {
		t.Errorf("RunAll() after Close error = %v, want ErrVerifierClosed", err)
	}
}

func TestParse(t *testing.T) {
	if f, err := ParseFamily("ML-DSA-87"); err != nil || f != MLDSA {
		t.Errorf("ParseFamily() = %v, %v", f, err)
	}
	if s, err := ParseSide("ref"); err != nil || s != Reference {
		t.Errorf("ParseSide() = %v, %v", s, err)
	}
	if p, ok := LookupXMSS("SHAKE256", 16); !ok || p.OID != 0x11 {
		t.Errorf("LookupXMSS() = %v, %v", p, ok)
	}
}

func TestClean(t *testing.T) {
	ctx := context.Background()
	v, ch := newMemVerifier(t)

	if _, err := v.Produce(ctx, Dilithium, Subject); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	if err := v.Clean(ctx, Dilithium); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if _, err := ch.Get(ctx, "dilithium_pk", 1); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Get() after Clean error = %v, want ErrNotFound", err)
	}
	if err := v.Clean(ctx); err != nil {
		t.Errorf("Clean() of an empty channel error = %v", err)
	}
}
