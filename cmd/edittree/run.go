package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/edittree/internal/engine/edittree"
	"github.com/dshills/edittree/internal/plugin/lua"
)

func newRunCmd(c *cli) *cobra.Command {
	var (
		text  string
		input string
	)

	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua script against the edittree module",
		Long: `Run executes a sandboxed Lua script. The script can create trees with
edittree.new(s). With --text or --input a tree holding that text is
preloaded as the global "doc".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := lua.NewState(
				lua.WithExecutionTimeout(c.cfg.Script.Timeout),
				lua.WithOutput(cmd.OutOrStdout()),
				lua.WithLogger(c.logger),
				lua.WithParallelBuild(c.cfg.Build.ParallelThreshold),
			)
			if err != nil {
				return err
			}
			defer state.Close()

			if input != "" {
				if text, err = readSource(cmd, input); err != nil {
					return err
				}
			}
			if text != "" || input != "" {
				state.SetTree("doc", edittree.FromString(text,
					edittree.WithParallelBuild(c.cfg.Build.ParallelThreshold)))
			}

			if err := state.DoFile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("run %s: %w", args[0], err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "preload doc with this text")
	cmd.Flags().StringVar(&input, "input", "", `preload doc from a file ("-" for stdin)`)
	cmd.MarkFlagsMutuallyExclusive("text", "input")
	return cmd
}
