//go:build integration

package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pqinterop/crossverify"
)

var redisURL string

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	redisURL = os.Getenv("CROSSVERIFY_REDIS_URL")
	if redisURL == "" {
		os.Stderr.WriteString("CROSSVERIFY_REDIS_URL not set: Redis channel tests will be skipped\n")
	}

	os.Exit(m.Run())
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	t.Cleanup(cancel)
	return ctx
}

func newVerifier(t *testing.T, uri string, opts ...crossverify.Option) *crossverify.Verifier {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.InfoLevel)
	opts = append([]crossverify.Option{
		crossverify.WithChannelURI(uri),
		crossverify.WithLogger(logger),
	}, opts...)

	v, err := crossverify.New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func checkReports(t *testing.T, reports []*crossverify.Report, err error) {
	t.Helper()
	for _, r := range reports {
		t.Log("\n" + strings.Join(r.Lines(), "\n"))
	}
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, r := range reports {
		if !r.Passed() {
			t.Errorf("%s %s %s did not pass", r.Family, r.Side, r.Role)
		}
	}
}

// TestIntegration_AllFamilies_Directory runs the CI layout: blobs as
// files in one directory, every family in both directions.
func TestIntegration_AllFamilies_Directory(t *testing.T) {
	v := newVerifier(t, t.TempDir())
	reports, err := v.RunAll(testContext(t))
	checkReports(t, reports, err)

	if len(reports) != 4*len(crossverify.Families()) {
		t.Errorf("got %d reports, want %d", len(reports), 4*len(crossverify.Families()))
	}
}

func TestIntegration_AllFamilies_Redis(t *testing.T) {
	if redisURL == "" {
		t.Skip("CROSSVERIFY_REDIS_URL not set")
	}
	prefix := "it" + time.Now().Format("150405") + "_"
	v := newVerifier(t, redisURL+"?prefix="+prefix)
	ctx := testContext(t)

	reports, err := v.RunAll(ctx)
	checkReports(t, reports, err)

	if err := v.Clean(ctx); err != nil {
		t.Errorf("Clean() error = %v", err)
	}
}

func TestIntegration_XMSSParameterSets(t *testing.T) {
	for _, set := range []struct {
		hash   string
		height int
	}{
		{"SHAKE128", 10},
		{"SHAKE256", 10},
	} {
		t.Run(set.hash, func(t *testing.T) {
			p, ok := crossverify.LookupXMSS(set.hash, set.height)
			if !ok {
				t.Fatalf("LookupXMSS(%s, %d) failed", set.hash, set.height)
			}
			v := newVerifier(t, "mem://", crossverify.WithXMSSParams(p))
			reports, err := v.RunAll(testContext(t), crossverify.XMSS)
			checkReports(t, reports, err)
		})
	}
}
