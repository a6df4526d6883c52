// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/usgflow/binaryfile"
	"github.com/katalvlaran/usgflow/datafile"
	"github.com/katalvlaran/usgflow/formattedfile"
)

func newInspectCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the record index of a head, budget or formatted file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				ix   *datafile.Index
				desc string
			)
			switch kind {
			case "head", "concentration":
				opts := append(a.cfg.BinaryOptions(), binaryfile.WithLogger(a.logger))
				open := binaryfile.OpenHeadFile
				if kind == "concentration" {
					open = binaryfile.OpenConcentrationFile
				}
				hf, err := open(path, opts...)
				if err != nil {
					return err
				}
				ix, desc = hf.Index(), fmt.Sprintf("%s %s, %d layers", hf.Kind(), hf.Precision(), hf.NLay())
			case "budget":
				bf, err := binaryfile.OpenBudgetFile(path, append(a.cfg.BinaryOptions(), binaryfile.WithLogger(a.logger))...)
				if err != nil {
					return err
				}
				ix, desc = bf.Index(), fmt.Sprintf("budget %s, %d terms", bf.Precision(), len(bf.UniqueTexts()))
			case "formatted":
				hf, err := formattedfile.Open(path, formattedfile.WithLogger(a.logger))
				if err != nil {
					return err
				}
				ix, desc = hf.Index(), fmt.Sprintf("formatted, %d layers", hf.NLay())
			default:
				return fmt.Errorf("inspect: unknown kind %q", kind)
			}
			return printIndex(cmd.OutOrStdout(), path, desc, ix)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "head", "file kind: head, concentration, budget or formatted")
	return cmd
}

func printIndex(out io.Writer, path, desc string, ix *datafile.Index) error {
	fmt.Fprintf(out, "%s: %s, %d records\n", path, desc, ix.Len())
	if ix.Truncated {
		fmt.Fprintln(out, "warning: index truncated")
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKSTP\tKPER\tTOTIM\tTEXT\tNCOL\tNROW\tNLAY\tOFFSET\tSTATUS")
	for i, e := range ix.Entries {
		status := "ok"
		if e.Err != nil {
			status = e.Err.Error()
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%g\t%s\t%d\t%d\t%d\t%d\t%s\n",
			i, e.Key.Kstp, e.Key.Kper, e.Totim, e.Text, e.Ncol, e.Nrow, e.Nlay, e.HeaderOffset, status)
	}
	return tw.Flush()
}
