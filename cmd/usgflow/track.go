// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/usgflow/particletrack"
)

func newTrackCmd(a *app) *cobra.Command {
	var (
		kind string
		dest []int
	)
	cmd := &cobra.Command{
		Use:   "track <file>",
		Short: "Summarize a pathline, endpoint or PRT track file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			opt := particletrack.WithLogger(a.logger)
			switch kind {
			case "pathline", "prt":
				open := particletrack.OpenPathlines
				if kind == "prt" {
					open = particletrack.OpenPRT
				}
				p, err := open(args[0], opt)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d pathlines, max id %d, max time %g\n", len(p.Lines), p.MaxID(), p.MaxTime())
				if len(dest) > 0 {
					fmt.Fprintf(out, "%d pass through %v\n", len(p.Destination(dest...)), dest)
				}
			case "endpoint":
				e, err := particletrack.OpenEndpoints(args[0], opt)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d endpoints, max id %d, max time %g\n", len(e.Points), e.MaxID(), e.MaxTime())
				if len(dest) > 0 {
					fmt.Fprintf(out, "%d terminate in %v\n", len(e.Destination(dest...)), dest)
				}
			default:
				return fmt.Errorf("track: unknown kind %q", kind)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "pathline", "file kind: pathline, endpoint or prt")
	cmd.Flags().IntSliceVar(&dest, "dest", nil, "0-based destination nodes")
	return cmd
}
