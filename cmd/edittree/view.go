package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/edittree/internal/engine/edittree"
	"github.com/dshills/edittree/internal/renderer/treeview"
)

func newViewCmd(c *cli) *cobra.Command {
	var (
		text       string
		appendMode bool
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a tree's shape in the terminal",
		Long: `View draws the tree built from a file or from --text, one node per cell
with its rank and balance code. Scroll with the arrow keys or hjkl and
quit with q or Esc.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var err error
				if text, err = readSource(cmd, args[0]); err != nil {
					return err
				}
			}

			var tr *edittree.Tree
			if appendMode {
				tr = edittree.New()
				for _, r := range text {
					tr.Append(r)
				}
			} else {
				tr = edittree.FromString(text, edittree.WithParallelBuild(c.cfg.Build.ParallelThreshold))
			}

			screen, err := c.newScreen()
			if err != nil {
				return err
			}
			defer screen.Fini()

			v := treeview.New(screen, tr,
				treeview.WithRank(c.cfg.View.ShowRank),
				treeview.WithBalance(c.cfg.View.ShowBalance),
			)
			return v.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "view a tree holding this text")
	cmd.Flags().BoolVar(&appendMode, "append", false, "grow the tree by appending instead of bulk building")
	return cmd
}
