// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/grid"
)

func newConnectCmd(a *app) *cobra.Command {
	var (
		gsf, out, ordering string
		noIVC              bool
		parallel           int
	)
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Build IAC/JA/IVC connectivity from a grid specification file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grid.OpenGridSpec(gsf, append(a.cfg.GridOptions(), grid.WithLogger(a.logger))...)
			if err != nil {
				return err
			}

			opts := append(a.cfg.BuildOptions(), connectivity.WithLogger(a.logger))
			if cmd.Flags().Changed("ordering") {
				ord, err := connectivity.ParseOrdering(ordering)
				if err != nil {
					return err
				}
				opts = append(opts, connectivity.WithOrdering(ord))
			}
			if cmd.Flags().Changed("parallel") {
				opts = append(opts, connectivity.WithParallel(parallel))
			}
			adj, err := connectivity.BuildContext(cmd.Context(), g, opts...)
			if err != nil {
				return err
			}
			a.logger.Info("connectivity built",
				zap.Int("nodes", adj.NNodes()), zap.Int("nja", adj.NJA()), zap.Int("components", len(adj.Components())))

			return withOutput(cmd, out, func(w io.Writer) error {
				return connectivity.WriteDISU(w, adj, connectivity.DISUOptions{OmitIVC: noIVC})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&gsf, "gsf", "", "grid specification file (required)")
	f.StringVar(&out, "out", "-", "output file, - for stdout")
	f.StringVar(&ordering, "ordering", "split", "JA segment ordering: split or ascending")
	f.BoolVar(&noIVC, "no-ivc", false, "omit the IVC block")
	f.IntVar(&parallel, "parallel", 1, "goroutines for the horizontal pass")
	_ = cmd.MarkFlagRequired("gsf")
	return cmd
}

// withOutput runs fn on path, or on the command's stdout for "" and "-".
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
