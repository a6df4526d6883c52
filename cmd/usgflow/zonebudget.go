// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/connectivity"
	"github.com/katalvlaran/usgflow/modeltime"
	"github.com/katalvlaran/usgflow/zonebudget"
)

func newZoneBudgetCmd(a *app) *cobra.Command {
	var (
		budget, zones, disu, tdis, out string
		structured               []int
		volumetric               bool
	)
	cmd := &cobra.Command{
		Use:   "zonebudget",
		Short: "Aggregate a budget file by zone and write a CSV table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := readZoneFile(zones)
			if err != nil {
				return err
			}
			opts := []zonebudget.Option{zonebudget.WithLogger(a.logger)}
			switch {
			case disu != "" && len(structured) > 0:
				return errors.New("zonebudget: --disu and --structured are exclusive")
			case disu != "":
				adj, err := connectivity.ReadDISUFile(disu)
				if err != nil {
					return err
				}
				opts = append(opts, zonebudget.WithAdjacency(adj))
			case len(structured) == 3:
				opts = append(opts, zonebudget.WithStructured(structured[0], structured[1], structured[2]))
			case len(structured) != 0:
				return fmt.Errorf("zonebudget: --structured wants nlay,nrow,ncol, got %v", structured)
			}

			if tdis != "" {
				mt, err := modeltime.OpenTDIS(tdis)
				if err != nil {
					return err
				}
				opts = append(opts, zonebudget.WithModelTime(mt))
			}

			bf, err := binaryfile.OpenBudgetFile(budget, append(a.cfg.BinaryOptions(), binaryfile.WithLogger(a.logger))...)
			if err != nil {
				return err
			}
			tables, err := zonebudget.Compute(bf, z, opts...)
			if err != nil {
				return err
			}
			if volumetric {
				for i, t := range tables {
					if tables[i], err = t.Volumetric(); err != nil {
						return err
					}
				}
			}
			a.logger.Info("zone budget computed", zap.Int("steps", len(tables)), zap.Bool("volumetric", volumetric))
			return withOutput(cmd, out, func(w io.Writer) error { return zonebudget.WriteCSV(w, tables) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&budget, "budget", "", "binary budget file (required)")
	f.StringVar(&zones, "zones", "", "zone file, one integer per cell (required)")
	f.StringVar(&disu, "disu", "", "connectivity file for FLOW-JA-FACE budgets")
	f.IntSliceVar(&structured, "structured", nil, "nlay,nrow,ncol for face-flow budgets")
	f.StringVar(&tdis, "tdis", "", "TDIS file giving step times and lengths")
	f.BoolVar(&volumetric, "volumetric", false, "multiply rates by the step length")
	f.StringVar(&out, "out", "-", "CSV output file, - for stdout")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("zones")
	return cmd
}

func readZoneFile(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return zonebudget.ReadZones(f)
}
