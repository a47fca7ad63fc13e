package crossverify

import (
	"github.com/rs/zerolog"

	"github.com/pqinterop/crossverify/internal/blob"
	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/metrics"
	"github.com/pqinterop/crossverify/internal/provider"
)

// DefaultChannelURI is the channel used when none is configured: files in
// /tmp, named the way the CI programs name them.
const DefaultChannelURI = "/tmp"

// config holds configuration for the verifier.
type config struct {
	channel    blob.Channel
	channelURI string
	logger     zerolog.Logger
	message    []byte
	context    provider.Context
	masterSeed []byte
	registry   *provider.Registry
	metrics    *metrics.Recorder
	xmss       layout.XMSSParams
	parallel   int
}

// Option configures the verifier.
type Option func(*config)

// WithChannel sets the blob channel artifacts are exchanged through.
// The verifier closes it on Close.
func WithChannel(ch blob.Channel) Option {
	return func(c *config) {
		c.channel = ch
	}
}

// WithChannelURI opens the channel described by uri, e.g. "/tmp",
// "mem://" or "redis://localhost:6379/0". Ignored when WithChannel is set.
func WithChannelURI(uri string) Option {
	return func(c *config) {
		c.channelURI = uri
	}
}

// WithLogger sets the logger rounds report their progress to.
// Default: zerolog.Nop()
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMessage sets the message producers sign. A nil message selects the
// family default. At most MaxMessageBytes bytes.
func WithMessage(msg []byte) Option {
	return func(c *config) {
		c.message = msg
	}
}

// WithContext sets the ML-DSA signing context. Other families reject a
// non-empty context.
func WithContext(ctx []byte) Option {
	return func(c *config) {
		c.context = provider.NewContext(ctx)
	}
}

// WithMasterSeed derives per-family key-generation seeds from secret
// instead of the fixed counting pattern.
func WithMasterSeed(secret []byte) Option {
	return func(c *config) {
		c.masterSeed = secret
	}
}

// WithRegistry replaces the default providers.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithMetrics records every finished round in m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithXMSSParams selects the XMSS parameter set.
// Default: XMSS-SHA2_10_256
func WithXMSSParams(p layout.XMSSParams) Option {
	return func(c *config) {
		c.xmss = p
	}
}

// WithParallelism caps how many families RunAll verifies at once.
// Default: one per family.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallel = n
	}
}
