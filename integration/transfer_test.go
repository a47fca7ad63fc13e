//go:build integration

package integration

import (
	"path/filepath"
	"testing"

	"github.com/pqinterop/crossverify"
)

// TestIntegration_BundleTransfer moves each family's subject artifacts to
// a second channel as a bundle file, as between two CI machines, and
// verifies them there.
func TestIntegration_BundleTransfer(t *testing.T) {
	ctx := testContext(t)
	producer := newVerifier(t, t.TempDir(), crossverify.WithMasterSeed([]byte("integration")))
	consumer := newVerifier(t, t.TempDir())

	for _, f := range crossverify.Families() {
		t.Run(string(f), func(t *testing.T) {
			if _, err := producer.Produce(ctx, f, crossverify.Subject); err != nil {
				t.Fatalf("Produce() error = %v", err)
			}

			file := filepath.Join(t.TempDir(), string(f)+".json")
			if err := producer.ExportToFile(ctx, f, crossverify.Subject, file); err != nil {
				t.Fatalf("ExportToFile() error = %v", err)
			}
			if _, err := consumer.ImportFromFile(ctx, file); err != nil {
				t.Fatalf("ImportFromFile() error = %v", err)
			}

			r, err := consumer.Consume(ctx, f, crossverify.Reference)
			if err != nil {
				t.Fatalf("Consume() error = %v", err)
			}
			if !r.Passed() {
				t.Error("consume after transfer did not pass")
			}
		})
	}
}
