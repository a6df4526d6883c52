// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/modeltime"
)

func newReverseCmd(a *app) *cobra.Command {
	var head, headOut, budget, budgetOut, tdis, tdisOut string
	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Reverse head, budget and TDIS files for backward tracking",
		Long: `reverse writes the time-reversed copy of each given file: records in reverse
time order with reversed step numbering, and budget flows negated. A TDIS
file, when given, supplies step lengths and is itself reversed when
--tdis-output is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if head == "" && budget == "" && tdis == "" {
				return errors.New("reverse: give at least one of --head, --budget, --tdis")
			}
			opts := append(a.cfg.BinaryOptions(), binaryfile.WithLogger(a.logger))

			// 1) time discretization
			if tdis != "" {
				mt, err := modeltime.OpenTDIS(tdis)
				if err != nil {
					return err
				}
				opts = append(opts, binaryfile.WithModelTime(mt))
				if tdisOut != "" {
					if err := writeTDIS(tdisOut, mt.Reverse()); err != nil {
						return err
					}
					a.logger.Info("tdis reversed", zap.String("in", tdis), zap.String("out", tdisOut))
				}
			}

			// 2) heads and budgets, independently
			for _, p := range []struct {
				in, out string
				budget  bool
			}{{head, headOut, false}, {budget, budgetOut, true}} {
				if p.in == "" {
					continue
				}
				if err := binaryfile.ReverseFile(p.in, p.out, p.budget, opts...); err != nil {
					return fmt.Errorf("reverse %s: %w", p.in, err)
				}
				a.logger.Info("file reversed", zap.String("in", p.in), zap.String("out", p.out), zap.Bool("budget", p.budget))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&head, "head", "", "binary head file")
	f.StringVar(&headOut, "head-output", "", "reversed head file")
	f.StringVar(&budget, "budget", "", "binary budget file")
	f.StringVar(&budgetOut, "budget-output", "", "reversed budget file")
	f.StringVar(&tdis, "tdis", "", "MODFLOW 6 TDIS file")
	f.StringVar(&tdisOut, "tdis-output", "", "reversed TDIS file")
	cmd.MarkFlagsRequiredTogether("head", "head-output")
	cmd.MarkFlagsRequiredTogether("budget", "budget-output")
	return cmd
}

func writeTDIS(path string, mt *modeltime.ModelTime) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return modeltime.WriteTDIS(f, mt)
}
