package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pqinterop/crossverify"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	cfg      Config
	settings *settings
	log      zerolog.Logger
	logClose func() error
}

func newRootCmd(cfg Config) *cobra.Command {
	v := viper.New()
	a := &app{cfg: cfg, logClose: func() error { return nil }}

	cmd := &cobra.Command{
		Use:   "crossverify",
		Short: "Cross-implementation verification of post-quantum signatures",
		Long: `crossverify checks that the go-qrllib implementations of Dilithium5,
ML-DSA-87, SPHINCS+-SHAKE-256s and XMSS agree with reference implementations.

One side produces a key pair, a signature and a message and publishes them
to a blob channel; the other side translates them into its own format and
verifies them. Both sides can run in one process (roundtrip, all) or in
separate processes sharing a directory or a Redis server (produce, consume).`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			a.settings = s
			logger, closer := newLogger(cfg.Stderr, s)
			a.log = logger
			a.logClose = closer.Close
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.logClose()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		a.produceCmd(),
		a.consumeCmd(),
		a.roundTripCmd(),
		a.allCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.cleanCmd(),
		a.familiesCmd(),
	)
	return cmd
}

// xmssParams parses HASH_HEIGHT.
func xmssParams(s string) (crossverify.XMSSParams, error) {
	hash, height, ok := strings.Cut(strings.ToUpper(s), "_")
	if !ok {
		return crossverify.XMSSParams{}, fmt.Errorf("invalid XMSS parameter set %q: want HASH_HEIGHT", s)
	}
	h, err := strconv.Atoi(height)
	if err != nil {
		return crossverify.XMSSParams{}, fmt.Errorf("invalid XMSS height %q", height)
	}
	p, ok := crossverify.LookupXMSS(hash, h)
	if !ok {
		return crossverify.XMSSParams{}, fmt.Errorf("unsupported XMSS parameter set %q", s)
	}
	return p, nil
}

// verifier builds a verifier from the settings. The returned metrics are
// nil unless a metrics file is configured.
func (a *app) verifier() (*crossverify.Verifier, *crossverify.Metrics, error) {
	s := a.settings
	xp, err := xmssParams(s.XMSS)
	if err != nil {
		return nil, nil, err
	}

	opts := []crossverify.Option{
		crossverify.WithChannelURI(s.Channel),
		crossverify.WithLogger(a.log),
		crossverify.WithXMSSParams(xp),
		crossverify.WithParallelism(s.Parallel),
		crossverify.WithMessage(s.message()),
	}
	if s.contextSet {
		opts = append(opts, crossverify.WithContext([]byte(s.Context)))
	}
	if len(s.MasterSeed) > 0 {
		opts = append(opts, crossverify.WithMasterSeed(s.MasterSeed))
	}

	var m *crossverify.Metrics
	if s.MetricsFile != "" {
		m = crossverify.NewMetrics()
		opts = append(opts, crossverify.WithMetrics(m))
	}

	v, err := crossverify.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return v, m, nil
}

// rounds runs fn against a fresh verifier, prints the reports and writes
// metrics. Any round failure becomes the returned error.
func (a *app) rounds(cmd *cobra.Command, fn func(context.Context, *crossverify.Verifier) ([]*crossverify.Report, error)) error {
	v, m, err := a.verifier()
	if err != nil {
		return err
	}
	defer func() { _ = v.Close() }()

	ctx := cmd.Context()
	if a.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.Timeout)
		defer cancel()
	}

	reports, runErr := fn(ctx, v)
	if err := printReports(cmd.OutOrStdout(), a.settings.Output, reports); err != nil {
		return errors.Join(runErr, err)
	}
	if m != nil {
		if err := m.WriteTextfile(a.settings.MetricsFile); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// familyArgs parses family arguments. No arguments selects every family.
func familyArgs(args []string) ([]crossverify.Family, error) {
	out := make([]crossverify.Family, 0, len(args))
	for _, arg := range args {
		f, err := crossverify.ParseFamily(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (a *app) side() (crossverify.Side, error) {
	return crossverify.ParseSide(a.settings.Side)
}

func (a *app) produceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "produce <family>",
		Short: "Generate, sign, self-verify and publish artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := crossverify.ParseFamily(args[0])
			if err != nil {
				return err
			}
			side, err := a.side()
			if err != nil {
				return err
			}
			return a.rounds(cmd, func(ctx context.Context, v *crossverify.Verifier) ([]*crossverify.Report, error) {
				r, err := v.Produce(ctx, f, side)
				return reportList(r), err
			})
		},
	}
}

func (a *app) consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume <family>",
		Short: "Read, translate and verify the other side's artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := crossverify.ParseFamily(args[0])
			if err != nil {
				return err
			}
			side, err := a.side()
			if err != nil {
				return err
			}
			return a.rounds(cmd, func(ctx context.Context, v *crossverify.Verifier) ([]*crossverify.Report, error) {
				r, err := v.Consume(ctx, f, side)
				return reportList(r), err
			})
		},
	}
}

func (a *app) roundTripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <family>",
		Short: "Produce on --side and consume on the other side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := crossverify.ParseFamily(args[0])
			if err != nil {
				return err
			}
			side, err := a.side()
			if err != nil {
				return err
			}
			return a.rounds(cmd, func(ctx context.Context, v *crossverify.Verifier) ([]*crossverify.Report, error) {
				return v.RoundTrip(ctx, f, side)
			})
		},
	}
}

func (a *app) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all [family...]",
		Short: "Round-trip every family in both directions",
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := familyArgs(args)
			if err != nil {
				return err
			}
			return a.rounds(cmd, func(ctx context.Context, v *crossverify.Verifier) ([]*crossverify.Report, error) {
				return v.RunAll(ctx, families...)
			})
		},
	}
}

func (a *app) familiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List supported families and their providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, _, err := a.verifier()
			if err != nil {
				return err
			}
			defer func() { _ = v.Close() }()

			out := cmd.OutOrStdout()
			for _, f := range v.Families() {
				fmt.Fprintf(out, "%-10s %s\n", f, f.Scheme())
			}
			for _, line := range v.Providers() {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}
}

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [family...]",
		Short: "Remove published artifacts from the channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			families, err := familyArgs(args)
			if err != nil {
				return err
			}
			v, _, err := a.verifier()
			if err != nil {
				return err
			}
			defer func() { _ = v.Close() }()
			return v.Clean(cmd.Context(), families...)
		},
	}
}

func reportList(r *crossverify.Report) []*crossverify.Report {
	if r == nil {
		return nil
	}
	return []*crossverify.Report{r}
}
