// Package exchange drives one verification round per family: a producer
// generates, signs, self-verifies and publishes artifacts; a consumer
// receives, translates and verifies them.
//
// A round is a strictly sequential pipeline over an injected provider,
// translator and blob channel. Every failure ends the round; nothing is
// retried because a retry would only reproduce a deterministic bug.
package exchange

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pqinterop/crossverify/internal/blob"
	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
	"github.com/pqinterop/crossverify/internal/translate"
)

// Observer is notified of every finished round.
type Observer interface {
	ObserveRound(r *Report)
}

// Config holds the collaborators of a round.
type Config struct {
	// Provider is the implementation this side drives. Its format decides
	// the side and, for producers, the blob name prefix.
	Provider   provider.Provider
	Translator translate.Translator
	Channel    blob.Channel

	// Message and Context are what a producer signs. A nil Message and an
	// absent Context select the family defaults.
	Message []byte
	Context provider.Context
	// Seed is the producer's key-generation seed, used when the family
	// and side derive keys from a seed.
	Seed []byte

	Logger   zerolog.Logger
	Observer Observer
}

// Driver runs rounds for one family and side.
type Driver struct {
	cfg    Config
	family layout.Family
	side   layout.Format
	log    zerolog.Logger
}

// New validates cfg and returns a driver.
func New(cfg Config) (*Driver, error) {
	if cfg.Provider == nil || cfg.Translator == nil || cfg.Channel == nil {
		return nil, errors.New("exchange: provider, translator and channel are required")
	}
	f := cfg.Provider.Family()
	if cfg.Translator.Family() != f {
		return nil, &rounderrors.TranslationError{
			Family: string(f),
			Reason: fmt.Sprintf("translator is for %s", cfg.Translator.Family()),
		}
	}
	side := cfg.Provider.Format()
	if !side.Valid() {
		return nil, &rounderrors.TranslationError{Family: string(f), From: string(side), Reason: "unknown format"}
	}
	return &Driver{
		cfg:    cfg,
		family: f,
		side:   side,
		log: cfg.Logger.With().
			Str("family", string(f)).
			Str("side", string(side)).
			Str("provider", cfg.Provider.Name()).
			Logger(),
	}, nil
}

func (d *Driver) begin(role Role) (*Report, zerolog.Logger) {
	r := newReport(d.family, role, d.side, d.cfg.Provider.Name())
	return r, d.log.With().Str("round", r.ID.String()).Str("role", string(role)).Logger()
}

func (d *Driver) enter(r *Report, log zerolog.Logger, s State) {
	r.enter(s)
	log.Debug().Str("state", string(s)).Msg("round state")
}

func (d *Driver) finish(r *Report, log zerolog.Logger, err error) (*Report, error) {
	if err != nil {
		r.fail(err)
		log.Error().Err(err).Str("state", string(StateFail)).Msg("round failed")
	} else {
		d.enter(r, log, StatePass)
		log.Info().Str("state", string(StatePass)).Dur("duration", r.Duration).Msg("round passed")
	}
	if d.cfg.Observer != nil {
		d.cfg.Observer.ObserveRound(r)
	}
	return r, err
}

type artifact struct {
	kind layout.Kind
	data []byte
}

// name returns the blob name of kind k as published by producer.
func (d *Driver) name(producer layout.Format, k layout.Kind) string {
	return layout.Prefix(producer) + layout.BlobName(d.family, k)
}

// Produce runs a producer round: generate, sign, self-verify, publish.
// Nothing is published unless self-verification passes.
func (d *Driver) Produce(ctx context.Context) (*Report, error) {
	r, log := d.begin(Producer)
	return d.finish(r, log, d.produce(ctx, r, log))
}

func (d *Driver) produce(ctx context.Context, r *Report, log zerolog.Logger) error {
	p := d.cfg.Provider

	d.enter(r, log, StateGenerate)
	msg := d.cfg.Message
	if msg == nil {
		msg = DefaultMessage(d.family)
	}
	if err := layout.CheckMax(d.family, d.side, layout.Message, msg); err != nil {
		return err
	}
	c := d.cfg.Context
	if !c.IsSet() {
		c = DefaultContext(d.family)
	}
	c, err := provider.Normalize(d.family, c)
	if err != nil {
		return err
	}

	var pk, sk, seed []byte
	if DerivesFromSeed(d.family, d.side) {
		sp, ok := p.(provider.Seeded)
		if !ok {
			return &rounderrors.TranslationError{
				Family: string(d.family), From: string(d.side), Reason: "provider cannot derive keys from a seed",
			}
		}
		seed = d.cfg.Seed
		if err := layout.Check(d.family, d.side, layout.Seed, seed); err != nil {
			return err
		}
		pk, sk, err = sp.KeypairFromSeed(seed)
	} else {
		pk, sk, err = p.Keypair()
	}
	if err != nil {
		return fmt.Errorf("keypair: %w", err)
	}
	if rel, ok := p.(provider.Releaser); ok {
		defer rel.Release(sk)
	}
	if err := layout.Check(d.family, d.side, layout.PublicKey, pk); err != nil {
		return err
	}

	sig, err := p.Sign(msg, c, sk)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	d.enter(r, log, StateSelfVerify)
	ok, err := p.Verify(sig, msg, c, pk)
	if err != nil {
		return &rounderrors.VerificationError{Stage: rounderrors.StageSelf, Family: string(d.family), Provider: p.Name(), Err: err}
	}
	if !ok {
		return &rounderrors.VerificationError{Stage: rounderrors.StageSelf, Family: string(d.family), Provider: p.Name()}
	}

	d.enter(r, log, StatePublish)
	blobs := []artifact{
		{layout.PublicKey, pk},
		{layout.Signature, sig},
		{layout.Message, msg},
	}
	if d.family.SupportsContext() {
		blobs = append(blobs, artifact{layout.Context, c.Bytes()})
	}
	if seed != nil {
		blobs = append(blobs, artifact{layout.Seed, seed})
	}
	if x, ok := d.cfg.Translator.(translate.XMSS); ok {
		es, err := x.ExpandedSeedFromSecretKey(sk)
		if err != nil {
			return err
		}
		skSeed, skPRF, pubSeed, err := x.SplitExpandedSeed(es)
		if err != nil {
			return err
		}
		blobs = append(blobs,
			artifact{layout.SKSeed, skSeed},
			artifact{layout.SKPRF, skPRF},
			artifact{layout.PubSeed, pubSeed})
	}

	for _, b := range blobs {
		name := d.name(d.side, b.kind)
		if err := d.cfg.Channel.Put(ctx, name, b.data); err != nil {
			return &rounderrors.ArtifactError{Name: name, Err: err}
		}
		r.record(name, b.data)
		log.Debug().Str("blob", name).Int("size", len(b.data)).Msg("published")
	}
	return nil
}

// Consume runs a consumer round over the artifacts the other side
// published: receive, translate, verify.
func (d *Driver) Consume(ctx context.Context) (*Report, error) {
	r, log := d.begin(Consumer)
	return d.finish(r, log, d.consume(ctx, r, log))
}

func (d *Driver) consume(ctx context.Context, r *Report, log zerolog.Logger) error {
	p := d.cfg.Provider
	peer := d.side.Other()

	d.enter(r, log, StateReceive)
	var in translate.Artifacts
	var err error
	if in.PublicKey, err = d.read(ctx, r, peer, layout.PublicKey); err != nil {
		return err
	}
	if in.Signature, err = d.read(ctx, r, peer, layout.Signature); err != nil {
		return err
	}
	if in.Message, err = d.read(ctx, r, peer, layout.Message); err != nil {
		return err
	}
	if d.family.SupportsContext() {
		ctxBytes, err := d.read(ctx, r, peer, layout.Context)
		if err != nil {
			return err
		}
		in.Context = provider.NewContext(ctxBytes)
	}
	var components [][]byte
	if d.family.SeedDeterministic() {
		if in.Seed, err = d.read(ctx, r, peer, layout.Seed); err != nil {
			return err
		}
		if d.family == layout.XMSS {
			for _, k := range []layout.Kind{layout.SKSeed, layout.SKPRF, layout.PubSeed} {
				b, err := d.read(ctx, r, peer, k)
				if err != nil {
					return err
				}
				components = append(components, b)
			}
		}
	}

	d.enter(r, log, StateTranslate)
	out, err := d.cfg.Translator.Artifacts(in, peer, d.side)
	if err != nil {
		return err
	}
	if err := d.checkSeed(in, out, peer, components); err != nil {
		return err
	}

	d.enter(r, log, StateVerify)
	var ok bool
	if o, isOpener := p.(provider.Opener); isOpener && out.SignedMessage != nil {
		ok, err = o.Open(out.SignedMessage, out.Context, out.PublicKey)
	} else {
		ok, err = p.Verify(out.Signature, out.Message, out.Context, out.PublicKey)
	}
	if err != nil {
		var re rounderrors.RoundError
		if errors.As(err, &re) {
			return err
		}
		return &rounderrors.VerificationError{Stage: rounderrors.StageCross, Family: string(d.family), Provider: p.Name(), Err: err}
	}
	if !ok {
		return &rounderrors.VerificationError{Stage: rounderrors.StageCross, Family: string(d.family), Provider: p.Name()}
	}
	return nil
}

// checkSeed runs the seed checks of the seed-deterministic families.
// SPHINCS+ consumers rebuild the key pair from the seed and require a
// byte-identical public key. XMSS consumers check the published seed
// components against the seed expansion and the public key.
func (d *Driver) checkSeed(in, out translate.Artifacts, peer layout.Format, components [][]byte) error {
	cross := func(err error) error {
		return &rounderrors.VerificationError{
			Stage: rounderrors.StageCross, Family: string(d.family), Provider: d.cfg.Provider.Name(), Err: err,
		}
	}

	switch x := d.cfg.Translator.(type) {
	case translate.SPHINCS:
		sp, ok := d.cfg.Provider.(provider.Seeded)
		if !ok {
			return nil
		}
		pk, sk, err := sp.KeypairFromSeed(out.Seed)
		if err != nil {
			return fmt.Errorf("keypair from seed: %w", err)
		}
		if rel, ok := sp.(provider.Releaser); ok {
			rel.Release(sk)
		}
		if !bytes.Equal(pk, out.PublicKey) {
			return cross(fmt.Errorf("%w: derived public key differs", translate.ErrSeedMismatch))
		}
	case translate.XMSS:
		subPK, err := x.PublicKey(in.PublicKey, peer, layout.Subject)
		if err != nil {
			return err
		}
		if err := x.CheckExpandedSeed(out.Seed, subPK, components[0], components[1], components[2]); err != nil {
			return cross(err)
		}
	}
	return nil
}

// read fetches one artifact published by producer and asserts its length
// before use. One byte past the limit is requested so an oversized blob
// is reported rather than silently truncated.
func (d *Driver) read(ctx context.Context, r *Report, producer layout.Format, k layout.Kind) ([]byte, error) {
	name := d.name(producer, k)
	limit := layout.MaxSize(d.family, producer, k)
	if x, ok := d.cfg.Translator.(translate.XMSS); ok {
		if n, fixed := layout.XMSSSize(x.Params(), producer, k); fixed {
			limit = n
		}
	}

	data, err := d.cfg.Channel.Get(ctx, name, limit+1)
	if err != nil {
		return nil, &rounderrors.ArtifactError{Name: name, Err: err}
	}
	r.record(name, data)
	d.log.Debug().Str("blob", name).Int("size", len(data)).Msg("received")

	if x, ok := d.cfg.Translator.(translate.XMSS); ok {
		if want, fixed := layout.XMSSSize(x.Params(), producer, k); fixed {
			if len(data) != want {
				return nil, &rounderrors.LengthError{
					Family: string(d.family), Format: string(producer), Artifact: name, Got: len(data), Want: want,
				}
			}
			return data, nil
		}
	}
	if err := layout.Check(d.family, producer, k, data); err != nil {
		var le *rounderrors.LengthError
		if errors.As(err, &le) {
			le.Artifact = name
		}
		return nil, err
	}
	return data, nil
}
