// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/usgflow/listbudget"
)

func newListingCmd(a *app) *cobra.Command {
	var term, dir string
	cmd := &cobra.Command{
		Use:   "listing <file>",
		Short: "Summarize the volumetric budgets of a listing file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := listbudget.Open(args[0], listbudget.WithLogger(a.logger))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if term == "" {
				fmt.Fprintln(tw, "KSTP\tKPER\tIN\tOUT\tIN-OUT\tDISCREPANCY%")
				for _, b := range lf.Budgets() {
					fmt.Fprintf(tw, "%d\t%d\t%g\t%g\t%g\t%g\n",
						b.Key.Kstp, b.Key.Kper, b.TotalIn.Rate, b.TotalOut.Rate, b.InMinusOut.Rate, b.Discrepancy.Rate)
				}
				return tw.Flush()
			}

			d := listbudget.In
			switch strings.ToLower(dir) {
			case "in":
			case "out":
				d = listbudget.Out
			default:
				return fmt.Errorf("listing: --dir must be in or out, got %q", dir)
			}
			series, err := lf.Series(term, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "KSTP\tKPER\tCUMULATIVE\tRATE")
			for _, s := range series {
				fmt.Fprintf(tw, "%d\t%d\t%g\t%g\n", s.Key.Kstp, s.Key.Kper, s.Cum, s.Rate)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "print one budget term instead of the totals")
	cmd.Flags().StringVar(&dir, "dir", "in", "term direction: in or out")
	return cmd
}
