// Package blob provides the named byte-blob channels artifacts are
// exchanged through.
//
// A Channel is a flat namespace of names to byte strings. Put overwrites;
// Get returns at most maxLen bytes and fails immediately with ErrNotFound
// when a name is absent. Channels never wait for a blob to appear.
package blob

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned by Get when no blob is stored under a name.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidName is returned for names that are empty or could escape
	// the channel's namespace.
	ErrInvalidName = errors.New("invalid blob name")

	// ErrUnsupportedScheme is returned by Open for an unknown URI scheme.
	ErrUnsupportedScheme = errors.New("unsupported channel scheme")
)

// validNameRegex matches valid blob names (alphanumeric, dash, underscore, dot).
var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Channel is named byte-blob storage.
type Channel interface {
	// Put stores data under name, replacing any existing blob.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns up to maxLen bytes of the blob stored under name. A
	// non-positive maxLen returns an empty slice if the blob exists.
	Get(ctx context.Context, name string, maxLen int) ([]byte, error)
}

// ValidateName reports whether name is usable as a blob name.
func ValidateName(name string) error {
	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Remover is implemented by channels that can delete blobs. Removing an
// absent blob is not an error.
type Remover interface {
	Remove(ctx context.Context, name string) error
}

// Remove deletes name from ch, or returns an error if ch cannot delete.
func Remove(ctx context.Context, ch Channel, name string) error {
	r, ok := ch.(Remover)
	if !ok {
		return fmt.Errorf("channel %T cannot remove blobs", ch)
	}
	return r.Remove(ctx, name)
}

type prefixed struct {
	ch     Channel
	prefix string
}

// Prefixed returns a channel that stores every name under prefix in ch.
func Prefixed(ch Channel, prefix string) Channel {
	if prefix == "" {
		return ch
	}
	return &prefixed{ch: ch, prefix: prefix}
}

func (p *prefixed) Put(ctx context.Context, name string, data []byte) error {
	return p.ch.Put(ctx, p.prefix+name, data)
}

func (p *prefixed) Get(ctx context.Context, name string, maxLen int) ([]byte, error) {
	return p.ch.Get(ctx, p.prefix+name, maxLen)
}

func (p *prefixed) Remove(ctx context.Context, name string) error {
	return Remove(ctx, p.ch, p.prefix+name)
}

// Close closes the underlying channel if it holds resources.
func (p *prefixed) Close() error {
	return Close(p.ch)
}

// Close releases ch's resources if it has any.
func Close(ch Channel) error {
	if c, ok := ch.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
