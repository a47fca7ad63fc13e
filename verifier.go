package crossverify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pqinterop/crossverify/internal/blob"
	"github.com/pqinterop/crossverify/internal/exchange"
	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/metrics"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/seed"
	"github.com/pqinterop/crossverify/internal/translate"
)

// Family identifies a signature scheme family.
type Family = layout.Family

// Supported families.
const (
	Dilithium = layout.Dilithium
	MLDSA     = layout.MLDSA
	SPHINCS   = layout.SPHINCS
	XMSS      = layout.XMSS
)

// Side names the wire convention a side of the exchange speaks.
type Side = layout.Format

// Sides.
const (
	Subject   = layout.Subject
	Reference = layout.Reference
)

// MaxMessageBytes is the largest message a round can carry.
const MaxMessageBytes = layout.MaxMessageBytes

// Report is the outcome of one round.
type Report = exchange.Report

// Channel is named byte-blob storage shared by both sides.
type Channel = blob.Channel

// Metrics collects round outcomes as Prometheus metrics.
type Metrics = metrics.Recorder

// NewMetrics returns an empty metrics recorder.
func NewMetrics() *Metrics { return metrics.New() }

// OpenChannel opens a channel by URI. See WithChannelURI.
func OpenChannel(uri string) (Channel, error) { return blob.Open(uri) }

// Families lists every supported family.
func Families() []Family { return layout.Families() }

// ParseFamily resolves a family name.
func ParseFamily(s string) (Family, error) { return layout.ParseFamily(s) }

// ParseSide resolves a side name.
func ParseSide(s string) (Side, error) { return layout.ParseFormat(s) }

// Verifier runs verification rounds between the subject and reference
// providers of each family over one blob channel.
type Verifier struct {
	cfg      *config
	channel  blob.Channel
	registry *provider.Registry
	seeds    *seed.Source

	mu     sync.RWMutex
	closed bool
}

// New creates a verifier.
func New(opts ...Option) (*Verifier, error) {
	cfg := &config{
		channelURI: DefaultChannelURI,
		xmss:       layout.DefaultXMSS,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.message != nil && len(cfg.message) > layout.MaxMessageBytes {
		return nil, &LengthError{
			Family: "*", Format: "*", Artifact: string(layout.Message),
			Got: len(cfg.message), Want: layout.MaxMessageBytes, Max: true,
		}
	}
	if _, ok := layout.LookupXMSS(cfg.xmss.Hash, cfg.xmss.Height); !ok {
		return nil, &TranslationError{Family: string(layout.XMSS), Reason: fmt.Sprintf("unsupported parameter set %s", cfg.xmss)}
	}

	registry := cfg.registry
	if registry == nil {
		r, err := DefaultRegistry(cfg.xmss)
		if err != nil {
			return nil, err
		}
		registry = r
	}

	ch := cfg.channel
	if ch == nil {
		c, err := blob.Open(cfg.channelURI)
		if err != nil {
			return nil, fmt.Errorf("open channel: %w", err)
		}
		ch = c
	}

	return &Verifier{
		cfg:      cfg,
		channel:  ch,
		registry: registry,
		seeds:    seed.NewSource(cfg.masterSeed),
	}, nil
}

// checkClosed returns ErrVerifierClosed if the verifier has been closed.
func (v *Verifier) checkClosed() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return ErrVerifierClosed
	}
	return nil
}

// Families returns the families the verifier has providers for on both sides.
func (v *Verifier) Families() []Family {
	return v.registry.Families()
}

// Providers describes the registered providers, one per line.
func (v *Verifier) Providers() []string {
	return v.registry.Describe()
}

func (v *Verifier) translator(f layout.Family) (translate.Translator, error) {
	if f == layout.XMSS {
		return translate.NewXMSS(v.cfg.xmss), nil
	}
	return translate.For(f)
}

func (v *Verifier) driver(f layout.Family, side layout.Format) (*exchange.Driver, error) {
	if !f.Valid() {
		return nil, &TranslationError{Family: string(f), Reason: "unknown family"}
	}
	if !side.Valid() {
		return nil, &TranslationError{Family: string(f), From: string(side), Reason: "unknown side"}
	}
	p, err := v.registry.Lookup(f, side)
	if err != nil {
		return nil, err
	}
	tr, err := v.translator(f)
	if err != nil {
		return nil, err
	}

	n, _ := layout.Size(f, side, layout.Seed)
	s, err := v.seeds.For(f, n)
	if err != nil {
		return nil, err
	}

	cfg := exchange.Config{
		Provider:   p,
		Translator: tr,
		Channel:    v.channel,
		Message:    v.cfg.message,
		Context:    v.cfg.context,
		Seed:       s,
		Logger:     v.cfg.logger,
	}
	if v.cfg.metrics != nil {
		cfg.Observer = v.cfg.metrics
	}
	return exchange.New(cfg)
}

// Produce runs a producer round for family f on side: generate a key pair,
// sign, self-verify and publish the artifacts.
func (v *Verifier) Produce(ctx context.Context, f Family, side Side) (*Report, error) {
	if err := v.checkClosed(); err != nil {
		return nil, err
	}
	d, err := v.driver(f, side)
	if err != nil {
		return nil, err
	}
	return d.Produce(ctx)
}

// Consume runs a consumer round for family f on side over the artifacts
// the other side published.
func (v *Verifier) Consume(ctx context.Context, f Family, side Side) (*Report, error) {
	if err := v.checkClosed(); err != nil {
		return nil, err
	}
	d, err := v.driver(f, side)
	if err != nil {
		return nil, err
	}
	return d.Consume(ctx)
}

// RoundTrip produces on producer and consumes on the other side. The
// consumer round only runs if the producer passed.
func (v *Verifier) RoundTrip(ctx context.Context, f Family, producer Side) ([]*Report, error) {
	pr, err := v.Produce(ctx, f, producer)
	if err != nil {
		return collect(pr), err
	}
	cr, err := v.Consume(ctx, f, producer.Other())
	return collect(pr, cr), err
}

func collect(rs ...*Report) []*Report {
	out := make([]*Report, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// RunAll round-trips each family in both directions, subject first. Both
// directions run even if the first fails. Families run concurrently; their
// blob names are disjoint. Every failure is returned, joined.
func (v *Verifier) RunAll(ctx context.Context, families ...Family) ([]*Report, error) {
	if err := v.checkClosed(); err != nil {
		return nil, err
	}
	if len(families) == 0 {
		families = v.Families()
	}

	results := make([][]*Report, len(families))
	errs := make([][]error, len(families))

	var g errgroup.Group
	if v.cfg.parallel > 0 {
		g.SetLimit(v.cfg.parallel)
	}
	for i, f := range families {
		g.Go(func() error {
			for _, producer := range []Side{Subject, Reference} {
				rs, err := v.RoundTrip(ctx, f, producer)
				results[i] = append(results[i], rs...)
				if err != nil {
					errs[i] = append(errs[i], fmt.Errorf("%s %s to %s: %w", f, producer, producer.Other(), err))
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var all []*Report
	var failed []error
	for i := range families {
		all = append(all, results[i]...)
		failed = append(failed, errs[i]...)
	}
	return all, errors.Join(failed...)
}

// Close releases the channel. Close is idempotent.
func (v *Verifier) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true
	return blob.Close(v.channel)
}

// XMSSParams is an XMSS parameter set.
type XMSSParams = layout.XMSSParams

// DefaultXMSS is XMSS-SHA2_10_256.
var DefaultXMSS = layout.DefaultXMSS

// LookupXMSS returns the parameter set for a hash function name
// ("SHA2", "SHAKE128", "SHAKE256") and tree height.
func LookupXMSS(hash string, height int) (XMSSParams, bool) {
	return layout.LookupXMSS(layout.XMSSHash(hash), height)
}

// Clean removes every blob either side may have published for families,
// or for all families when none are given. The channel must support
// removal.
func (v *Verifier) Clean(ctx context.Context, families ...Family) error {
	if err := v.checkClosed(); err != nil {
		return err
	}
	if len(families) == 0 {
		families = layout.Families()
	}
	for _, f := range families {
		for _, side := range []Side{Subject, Reference} {
			for _, k := range layout.Published(f) {
				name := layout.Prefix(side) + layout.BlobName(f, k)
				if err := blob.Remove(ctx, v.channel, name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
