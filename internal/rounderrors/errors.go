// Package rounderrors provides the error kinds shared by every stage of an
// exchange round.
package rounderrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrArtifactUnavailable is returned when a blob is missing or unreadable.
	ErrArtifactUnavailable = errors.New("artifact unavailable")

	// ErrLengthMismatch is returned when an artifact length does not equal the
	// declared constant for its family and format.
	ErrLengthMismatch = errors.New("artifact length mismatch")

	// ErrTranslationUnsupported is returned for an unknown family, format or
	// algorithm identifier.
	ErrTranslationUnsupported = errors.New("translation unsupported")

	// ErrSelfVerificationFailed is returned when a producer's own signature is
	// rejected by its own verify call.
	ErrSelfVerificationFailed = errors.New("self-verification failed")

	// ErrCrossVerificationFailed is returned when the consumer rejects the
	// translated artifacts of its peer.
	ErrCrossVerificationFailed = errors.New("cross-verification failed")

	// ErrUnknownSecretKey is returned when a provider is asked to sign with a
	// secret key it cannot use.
	ErrUnknownSecretKey = errors.New("unknown secret key")

	// ErrContextUnsupported is returned when a non-empty context is supplied
	// to a family without domain-separation contexts.
	ErrContextUnsupported = errors.New("context not supported")
)

// RoundError is implemented by all typed round errors.
type RoundError interface {
	error
	RoundError() // marker method
}

// ArtifactError reports a blob that could not be read or written.
type ArtifactError struct {
	Name string
	Err  error
}

func (e *ArtifactError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("artifact %s unavailable: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("artifact %s unavailable", e.Name)
}

// Unwrap returns the underlying error.
func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ArtifactError) Is(target error) bool {
	return target == ErrArtifactUnavailable
}

// RoundError implements the RoundError interface.
func (e *ArtifactError) RoundError() {}

// LengthError reports an artifact whose length differs from its declared size.
// Want is the exact size, or the capacity when Max is set.
type LengthError struct {
	Family   string
	Format   string
	Artifact string
	Got      int
	Want     int
	Max      bool
}

func (e *LengthError) Error() string {
	if e.Max {
		return fmt.Sprintf("%s %s %s: got %d bytes, want at most %d", e.Family, e.Format, e.Artifact, e.Got, e.Want)
	}
	return fmt.Sprintf("%s %s %s: got %d bytes, want %d", e.Family, e.Format, e.Artifact, e.Got, e.Want)
}

// Is implements errors.Is for sentinel error matching.
func (e *LengthError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// RoundError implements the RoundError interface.
func (e *LengthError) RoundError() {}

// TranslationError reports a conversion that has no defined mapping.
type TranslationError struct {
	Family string
	From   string
	To     string
	Reason string
	Err    error
}

func (e *TranslationError) Error() string {
	msg := fmt.Sprintf("cannot translate %s from %s to %s", e.Family, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslationUnsupported
}

// RoundError implements the RoundError interface.
func (e *TranslationError) RoundError() {}

// Verification stages.
const (
	StageSelf  = "self"
	StageCross = "cross"
)

// VerificationError reports a signature rejected by a provider.
type VerificationError struct {
	Stage    string
	Family   string
	Provider string
	Err      error
}

func (e *VerificationError) Error() string {
	what := "cross-verification"
	if e.Stage == StageSelf {
		what = "self-verification"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed with %s: %v", e.Family, what, e.Provider, e.Err)
	}
	return fmt.Sprintf("%s %s rejected by %s", e.Family, what, e.Provider)
}

// Unwrap returns the underlying error.
func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *VerificationError) Is(target error) bool {
	if e.Stage == StageSelf {
		return target == ErrSelfVerificationFailed
	}
	return target == ErrCrossVerificationFailed
}

// RoundError implements the RoundError interface.
func (e *VerificationError) RoundError() {}
