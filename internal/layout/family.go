package layout

import (
	"fmt"
	"slices"
	"strings"
)

// Family identifies a signature scheme family.
type Family string

// Supported families. The string values are also the blob name stems.
const (
	Dilithium Family = "dilithium"
	MLDSA     Family = "mldsa"
	SPHINCS   Family = "sphincs"
	XMSS      Family = "xmss"
)

// Families lists every supported family in a stable order.
func Families() []Family {
	return []Family{Dilithium, MLDSA, SPHINCS, XMSS}
}

// ParseFamily resolves a family name, case-insensitively. A few common
// aliases are accepted.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dilithium", "dilithium5":
		return Dilithium, nil
	case "mldsa", "ml-dsa", "ml-dsa-87", "mldsa87":
		return MLDSA, nil
	case "sphincs", "sphincs+", "sphincsplus":
		return SPHINCS, nil
	case "xmss":
		return XMSS, nil
	}
	return "", fmt.Errorf("unknown family %q", s)
}

// Valid reports whether f is a supported family.
func (f Family) Valid() bool {
	return slices.Contains(Families(), f)
}

// Scheme is the human-readable parameter set name used in reports.
func (f Family) Scheme() string {
	switch f {
	case Dilithium:
		return "Dilithium5"
	case MLDSA:
		return "ML-DSA-87"
	case SPHINCS:
		return "SPHINCS+-SHAKE-256s-robust"
	case XMSS:
		return "XMSS-SHA2_10_256"
	}
	return string(f)
}

// SupportsContext reports whether signing and verification take a
// domain-separation context.
func (f Family) SupportsContext() bool {
	return f == MLDSA
}

// SeedDeterministic reports whether key pairs are derived from a seed that
// crosses the exchange boundary.
func (f Family) SeedDeterministic() bool {
	return f == SPHINCS || f == XMSS
}

// Format names the wire convention an artifact is encoded in.
type Format string

const (
	// Subject is the implementation under test.
	Subject Format = "subject"
	// Reference is the trusted implementation artifacts are checked against.
	Reference Format = "reference"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == Subject || f == Reference
}

// Other returns the opposite format.
func (f Format) Other() Format {
	if f == Subject {
		return Reference
	}
	return Subject
}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subject", "sub":
		return Subject, nil
	case "reference", "ref":
		return Reference, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Kind names an exchanged artifact.
type Kind string

// Artifact kinds.
const (
	PublicKey Kind = "pk"
	SecretKey Kind = "sk"
	Signature Kind = "sig"
	Message   Kind = "msg"
	Seed      Kind = "seed"
	Context   Kind = "ctx"

	// Expanded XMSS seed components, published for reference implementations
	// that rebuild the key from its parts.
	SKSeed  Kind = "sk_seed"
	SKPRF   Kind = "sk_prf"
	PubSeed Kind = "pub_seed"
)
