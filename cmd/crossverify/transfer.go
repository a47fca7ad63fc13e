package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pqinterop/crossverify"
)

func (a *app) exportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export <family>",
		Short: "Write the artifacts --side published as a JSON bundle",
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
			v, _, err := a.verifier()
			if err != nil {
				return err
			}
			defer func() { _ = v.Close() }()

			if file != "" && file != "-" {
				return v.ExportToFile(cmd.Context(), f, side, file)
			}
			b, err := v.Export(cmd.Context(), f, side)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "bundle file, - for stdout")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Publish the artifacts of a JSON bundle to the channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := a.verifier()
			if err != nil {
				return err
			}
			defer func() { _ = v.Close() }()

			var b *crossverify.Bundle
			if args[0] == "-" {
				b, err = readBundle(cmd.InOrStdin())
				if err != nil {
					return err
				}
				err = v.Import(cmd.Context(), b)
			} else {
				b, err = v.ImportFromFile(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			a.log.Info().Str("family", b.Family).Str("side", b.Side).Int("artifacts", len(b.Artifacts)).Msg("imported")
			return nil
		},
	}
}

func readBundle(r io.Reader) (*crossverify.Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	var b crossverify.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	return &b, nil
}
