package exchange

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/pqinterop/crossverify/internal/layout"
)

// FingerprintSize is the length in bytes of an artifact fingerprint.
const FingerprintSize = 16

// Fingerprint returns the hex SHAKE-256 digest of b, truncated to
// FingerprintSize bytes.
func Fingerprint(b []byte) string {
	var out [FingerprintSize]byte
	sha3.ShakeSum256(out[:], b)
	return hex.EncodeToString(out[:])
}

// Artifact records one blob read or written during a round.
type Artifact struct {
	Name        string `json:"name"`
	Size        int    `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

// Report is the outcome of one round.
type Report struct {
	ID        uuid.UUID     `json:"id"`
	Family    layout.Family `json:"family"`
	Role      Role          `json:"role"`
	Side      layout.Format `json:"side"`
	Provider  string        `json:"provider"`
	Artifacts []Artifact    `json:"artifacts"`
	States    []State       `json:"states"`
	Outcome   State         `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`

	err error
}

func newReport(f layout.Family, role Role, side layout.Format, name string) *Report {
	return &Report{
		ID:       uuid.New(),
		Family:   f,
		Role:     role,
		Side:     side,
		Provider: name,
		States:   []State{StateInit},
		Started:  time.Now(),
	}
}

// State returns the latest state of the round.
func (r *Report) State() State {
	return r.States[len(r.States)-1]
}

// Passed reports whether the round ended in PASS.
func (r *Report) Passed() bool {
	return r.Outcome == StatePass
}

// Err returns the error that failed the round, or nil.
func (r *Report) Err() error {
	return r.err
}

func (r *Report) record(name string, data []byte) {
	r.Artifacts = append(r.Artifacts, Artifact{Name: name, Size: len(data), Fingerprint: Fingerprint(data)})
}

func (r *Report) enter(s State) {
	if !allowed(r.Role, r.State(), s) {
		panic(fmt.Sprintf("exchange: illegal transition %s -> %s for %s", r.State(), s, r.Role))
	}
	r.States = append(r.States, s)
	if s.Terminal() {
		r.Outcome = s
		r.Duration = time.Since(r.Started)
	}
}

func (r *Report) fail(err error) {
	r.err = err
	r.Error = err.Error()
	r.enter(StateFail)
}

// Lines renders one line per artifact followed by one PASS or FAIL line.
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Artifacts)+2)
	lines = append(lines, fmt.Sprintf("%s %s %s (%s):", r.Family.Scheme(), r.Side, r.Role, r.Provider))
	for _, a := range r.Artifacts {
		lines = append(lines, fmt.Sprintf("  %-20s %6d bytes  %s", a.Name+":", a.Size, a.Fingerprint))
	}

	verdict := "PASSED"
	if !r.Passed() {
		verdict = "FAILED"
	}
	line := fmt.Sprintf("  %s: %s", r.verdictLabel(), verdict)
	if r.Error != "" {
		line += " (" + r.Error + ")"
	}
	return append(lines, line)
}

func (r *Report) verdictLabel() string {
	if r.Role == Producer {
		return "Self-verify"
	}
	return "Verification"
}
