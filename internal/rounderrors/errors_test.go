package rounderrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestLengthError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *LengthError
		expected string
	}{
		{
			name:     "exact",
			err:      &LengthError{Family: "xmss", Format: "subject", Artifact: "pk", Got: 63, Want: 64},
			expected: "xmss subject pk: got 63 bytes, want 64",
		},
		{
			name:     "capacity",
			err:      &LengthError{Family: "mldsa", Format: "subject", Artifact: "msg", Got: 300, Want: 256, Max: true},
			expected: "mldsa subject msg: got 300 bytes, want at most 256",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTypedErrors_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"artifact", &ArtifactError{Name: "xmss_msg"}, ErrArtifactUnavailable, true},
		{"artifact not length", &ArtifactError{Name: "xmss_msg"}, ErrLengthMismatch, false},
		{"length", &LengthError{}, ErrLengthMismatch, true},
		{"translation", &TranslationError{Family: "xmss"}, ErrTranslationUnsupported, true},
		{"context wraps translation", &TranslationError{Err: ErrContextUnsupported}, ErrContextUnsupported, true},
		{"context is translation", &TranslationError{Err: ErrContextUnsupported}, ErrTranslationUnsupported, true},
		{"self", &VerificationError{Stage: StageSelf}, ErrSelfVerificationFailed, true},
		{"self not cross", &VerificationError{Stage: StageSelf}, ErrCrossVerificationFailed, false},
		{"cross", &VerificationError{Stage: StageCross}, ErrCrossVerificationFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArtifactError_Unwrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := fmt.Errorf("consume: %w", &ArtifactError{Name: "dilithium_pk", Err: inner})

	if !errors.Is(err, inner) {
		t.Error("wrapped error should match the underlying cause")
	}

	var ae *ArtifactError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As() should find *ArtifactError")
	}
	if ae.Name != "dilithium_pk" {
		t.Errorf("Name = %q, want dilithium_pk", ae.Name)
	}
}

func TestRoundErrorInterface(t *testing.T) {
	var _ RoundError = (*ArtifactError)(nil)
	var _ RoundError = (*LengthError)(nil)
	var _ RoundError = (*TranslationError)(nil)
	var _ RoundError = (*VerificationError)(nil)
}
