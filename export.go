package crossverify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pqinterop/crossverify/internal/blob"
	"github.com/pqinterop/crossverify/internal/layout"
)

// ExportVersion is the current bundle format version.
const ExportVersion = 1

// Bundle carries the artifacts one producer published, so they can be
// moved to a channel on another machine.
type Bundle struct {
	// Version is the bundle format version. MUST be 1.
	Version int `json:"version"`
	// Family is the family id, e.g. "xmss".
	Family string `json:"family"`
	// Side is the producer's side, "subject" or "reference".
	Side string `json:"side"`
	// Scheme is the parameter set name. Informational except for XMSS,
	// where it selects the signature length.
	Scheme string `json:"scheme"`
	// Artifacts maps an artifact kind ("pk", "sig", ...) to its bytes,
	// base64url without padding.
	Artifacts map[string]string `json:"artifacts"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
}

// toBase64URL encodes bytes to URL-safe base64 without padding.
func toBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// fromBase64URL decodes URL-safe base64, with or without padding.
func fromBase64URL(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// optional reports whether a published kind may be missing from a bundle.
// Reference producers of the lattice families publish no seed.
func optional(f layout.Family, k layout.Kind) bool {
	return k == layout.Seed && !f.SeedDeterministic()
}

// xmssParams resolves the XMSS parameter set named by the bundle scheme.
func (b *Bundle) xmssParams() (layout.XMSSParams, error) {
	if b.Scheme == "" {
		return layout.DefaultXMSS, nil
	}
	for _, h := range []layout.XMSSHash{layout.XMSSSHA2, layout.XMSSSHAKE128, layout.XMSSSHAKE256} {
		for _, height := range []int{10, 16, 20} {
			if p, ok := layout.LookupXMSS(h, height); ok && p.String() == b.Scheme {
				return p, nil
			}
		}
	}
	return layout.XMSSParams{}, fmt.Errorf("%w: unknown XMSS scheme %q", ErrInvalidImportData, b.Scheme)
}

// checkSize asserts the declared size of an artifact. XMSS sizes depend
// on the parameter set.
func checkSize(f layout.Family, xp layout.XMSSParams, side layout.Format, k layout.Kind, data []byte) error {
	if f == layout.XMSS {
		if want, fixed := layout.XMSSSize(xp, side, k); fixed {
			if len(data) != want {
				return &LengthError{
					Family: string(f), Format: string(side), Artifact: string(k), Got: len(data), Want: want,
				}
			}
			return nil
		}
	}
	return layout.Check(f, side, k, data)
}

// decode validates the bundle and returns its artifacts by kind.
func (b *Bundle) decode() (layout.Family, layout.Format, map[layout.Kind][]byte, error) {
	if b.Version != ExportVersion {
		return "", "", nil, fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidImportData, b.Version, ExportVersion)
	}
	f, err := layout.ParseFamily(b.Family)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrInvalidImportData, err)
	}
	side, err := layout.ParseFormat(b.Side)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrInvalidImportData, err)
	}

	var xp layout.XMSSParams
	if f == layout.XMSS {
		if xp, err = b.xmssParams(); err != nil {
			return "", "", nil, err
		}
	}

	known := make(map[string]bool)
	out := make(map[layout.Kind][]byte)
	for _, k := range layout.Published(f) {
		known[string(k)] = true
		enc, ok := b.Artifacts[string(k)]
		if !ok {
			if optional(f, k) {
				continue
			}
			return "", "", nil, fmt.Errorf("%w: %s is required", ErrInvalidImportData, k)
		}
		data, err := fromBase64URL(enc)
		if err != nil {
			return "", "", nil, fmt.Errorf("%w: invalid %s encoding", ErrInvalidImportData, k)
		}
		if err := checkSize(f, xp, side, k, data); err != nil {
			return "", "", nil, fmt.Errorf("%w: %v", ErrInvalidImportData, err)
		}
		out[k] = data
	}
	for k := range b.Artifacts {
		if !known[k] {
			return "", "", nil, fmt.Errorf("%w: unknown artifact %q", ErrInvalidImportData, k)
		}
	}
	return f, side, out, nil
}

// Validate checks that the bundle is complete and every artifact has its
// declared size.
func (b *Bundle) Validate() error {
	_, _, _, err := b.decode()
	return err
}

// Export reads the artifacts side published for family f.
func (v *Verifier) Export(ctx context.Context, f Family, side Side) (*Bundle, error) {
	if err := v.checkClosed(); err != nil {
		return nil, err
	}
	if !f.Valid() || !side.Valid() {
		return nil, &TranslationError{Family: string(f), From: string(side), Reason: "unknown family or side"}
	}

	scheme := f.Scheme()
	if f == layout.XMSS {
		scheme = v.cfg.xmss.String()
	}
	b := &Bundle{
		Version:    ExportVersion,
		Family:     string(f),
		Side:       string(side),
		Scheme:     scheme,
		Artifacts:  make(map[string]string),
		ExportedAt: time.Now().UTC(),
	}

	for _, k := range layout.Published(f) {
		name := layout.Prefix(side) + layout.BlobName(f, k)
		limit := layout.MaxSize(f, side, k)
		if f == layout.XMSS {
			if n, fixed := layout.XMSSSize(v.cfg.xmss, side, k); fixed {
				limit = n
			}
		}
		data, err := v.channel.Get(ctx, name, limit+1)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) && optional(f, k) {
				continue
			}
			return nil, &ArtifactError{Name: name, Err: err}
		}
		b.Artifacts[string(k)] = toBase64URL(data)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Import validates b and writes its artifacts to the verifier's channel
// under the names its producer would have used.
func (v *Verifier) Import(ctx context.Context, b *Bundle) error {
	if b == nil {
		return fmt.Errorf("%w: bundle cannot be nil", ErrInvalidImportData)
	}
	if err := v.checkClosed(); err != nil {
		return err
	}
	f, side, artifacts, err := b.decode()
	if err != nil {
		return err
	}
	for _, k := range layout.Published(f) {
		data, ok := artifacts[k]
		if !ok {
			continue
		}
		name := layout.Prefix(side) + layout.BlobName(f, k)
		if err := v.channel.Put(ctx, name, data); err != nil {
			return &ArtifactError{Name: name, Err: err}
		}
	}
	return nil
}

// ExportToFile exports the artifacts side published for family f to a
// JSON file.
func (v *Verifier) ExportToFile(ctx context.Context, f Family, side Side, filePath string) error {
	b, err := v.Export(ctx, f, side)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err) //coverage:ignore
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ImportFromFile imports a bundle from a JSON file and returns it.
func (v *Verifier) ImportFromFile(ctx context.Context, filePath string) (*Bundle, error) {
	if err := v.checkClosed(); err != nil {
		return nil, err
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(jsonData, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}

	return &b, v.Import(ctx, &b)
}
