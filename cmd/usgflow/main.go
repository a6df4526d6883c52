// SPDX-License-Identifier: MIT

// Command usgflow builds unstructured-grid connectivity and reads, reverses
// and summarizes MODFLOW output files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/usgflow/config"
)

// app carries the state shared by every subcommand.
type app struct {
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "usgflow",
		Short: "Unstructured-grid connectivity and MODFLOW output tools",
		Long: `usgflow builds IAC/JA/IVC connectivity for layered unstructured grids and
reads MODFLOW head, budget, listing and particle tracking output.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.logger != nil {
				return nil
			}
			zc := zap.NewProductionConfig()
			zc.Level = zap.NewAtomicLevelAt(cfg.Level())
			if a.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "usgflow.yaml", "YAML configuration file (defaults apply when absent)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newReverseCmd(a),
		newConnectCmd(a),
		newInspectCmd(a),
		newZoneBudgetCmd(a),
		newListingCmd(a),
		newTrackCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
