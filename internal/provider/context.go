package provider

import (
	"fmt"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// Context is an optional domain-separation string. The zero value is
// "no context", which is distinct from an explicit empty context.
type Context struct {
	value []byte
	set   bool
}

// NoContext returns the absent context.
func NoContext() Context {
	return Context{}
}

// NewContext returns an explicit context holding a copy of b. A nil or
// empty b yields the explicit empty context.
func NewContext(b []byte) Context {
	return Context{value: append([]byte{}, b...), set: true}
}

// IsSet reports whether the context is present, even if empty.
func (c Context) IsSet() bool {
	return c.set
}

// Bytes returns the context value. It is nil for an absent context.
func (c Context) Bytes() []byte {
	return c.value
}

// Len returns the length of the context value.
func (c Context) Len() int {
	return len(c.value)
}

func (c Context) String() string {
	if !c.set {
		return "<none>"
	}
	return fmt.Sprintf("%q", c.value)
}

// Normalize returns the context a family's sign and verify entry points
// receive. Families with context support turn an absent context into the
// explicit empty one. Families without it accept only an absent or empty
// context and always receive the absent one.
func Normalize(f layout.Family, c Context) (Context, error) {
	if f.SupportsContext() {
		if c.Len() > layout.MaxContextBytes {
			return Context{}, &rounderrors.LengthError{
				Family: string(f), Artifact: string(layout.Context),
				Got: c.Len(), Want: layout.MaxContextBytes, Max: true,
			}
		}
		if !c.set {
			return NewContext(nil), nil
		}
		return c, nil
	}
	if c.Len() > 0 {
		return Context{}, &rounderrors.TranslationError{
			Family: string(f), Reason: "non-empty context", Err: rounderrors.ErrContextUnsupported,
		}
	}
	return NoContext(), nil
}
