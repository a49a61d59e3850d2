package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/edittree/internal/engine/edittree"
)

func newDumpCmd(c *cli) *cobra.Command {
	var appendMode bool

	cmd := &cobra.Command{
		Use:   "dump <text>",
		Short: "Print the pre-order debug form of a tree built from text",
		Long: `Dump prints every node as element, rank and balance code in pre-order,
for example "[b1=, a0=, c0=]". With --append the tree is grown one
element at a time, which shows the shapes rebalancing produces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tr *edittree.Tree
			if appendMode {
				tr = edittree.New()
				for _, r := range args[0] {
					tr.Append(r)
				}
			} else {
				tr = edittree.FromString(args[0],
					edittree.WithParallelBuild(c.cfg.Build.ParallelThreshold))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tr.DebugString())
			fmt.Fprintf(out, "size %d  height %d  rotations %d\n", tr.Size(), tr.Height(), tr.Rotations())
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendMode, "append", false, "grow the tree by appending instead of bulk building")
	return cmd
}
