package crossverify

import (
	"errors"

	"github.com/pqinterop/crossverify/internal/rounderrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrVerifierClosed is returned when operations are attempted on a closed verifier.
	ErrVerifierClosed = errors.New("verifier has been closed")

	// ErrInvalidImportData is returned when an imported bundle is invalid.
	ErrInvalidImportData = errors.New("invalid import data")

	// ErrArtifactUnavailable is returned when a blob is missing or unreadable.
	ErrArtifactUnavailable = rounderrors.ErrArtifactUnavailable

	// ErrLengthMismatch is returned when an artifact length differs from the
	// declared constant for its family and format.
	ErrLengthMismatch = rounderrors.ErrLengthMismatch

	// ErrTranslationUnsupported is returned for an unknown family, format or
	// algorithm identifier.
	ErrTranslationUnsupported = rounderrors.ErrTranslationUnsupported

	// ErrSelfVerificationFailed is returned when a producer rejects its own signature.
	ErrSelfVerificationFailed = rounderrors.ErrSelfVerificationFailed

	// ErrCrossVerificationFailed is returned when a consumer rejects its peer's artifacts.
	ErrCrossVerificationFailed = rounderrors.ErrCrossVerificationFailed

	// ErrUnknownSecretKey is returned when a provider cannot sign with a secret key.
	ErrUnknownSecretKey = rounderrors.ErrUnknownSecretKey

	// ErrContextUnsupported is returned for a non-empty context on a family
	// without contexts.
	ErrContextUnsupported = rounderrors.ErrContextUnsupported
)

// Error types. See package rounderrors for their fields.
type (
	RoundError        = rounderrors.RoundError
	ArtifactError     = rounderrors.ArtifactError
	LengthError       = rounderrors.LengthError
	TranslationError  = rounderrors.TranslationError
	VerificationError = rounderrors.VerificationError
)
