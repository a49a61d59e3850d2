package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/edittree/internal/engine/buffer"
)

func newBuildCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Bulk-build a tree from a file and report its shape",
		Long: `Build loads a file (or standard input with "-") into a buffer using the
bulk builder, verifies every tree invariant and prints size, height and
timing. With --json the report is a single JSON object.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			buf := buffer.NewBufferFromString(text, c.bufferOptions(text)...)
			elapsed := time.Since(start)

			if err := buf.Check(); err != nil {
				return fmt.Errorf("tree check failed: %w", err)
			}
			c.logger.Debug("built tree", "source", args[0], "size", buf.Len(), "elapsed", elapsed)

			out := cmd.OutOrStdout()
			if asJSON {
				doc, err := buildReport(args[0], buf, elapsed)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, doc)
				return nil
			}
			fmt.Fprintf(out, "source:      %s\n", args[0])
			fmt.Fprintf(out, "size:        %d\n", buf.Len())
			fmt.Fprintf(out, "lines:       %d\n", buf.LineCount())
			fmt.Fprintf(out, "line ending: %s\n", buf.LineEnding())
			fmt.Fprintf(out, "height:      %d\n", buf.Height())
			fmt.Fprintf(out, "rotations:   %d\n", buf.Rotations())
			fmt.Fprintf(out, "build time:  %s\n", elapsed)
			fmt.Fprintln(out, "check:       ok")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func buildReport(source string, buf *buffer.Buffer, elapsed time.Duration) (string, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"source", source},
		{"size", buf.Len()},
		{"lines", buf.LineCount()},
		{"line_ending", buf.LineEnding().String()},
		{"height", buf.Height()},
		{"rotations", buf.Rotations()},
		{"build_ns", elapsed.Nanoseconds()},
		{"check", "ok"},
	}

	doc := "{}"
	for _, f := range fields {
		var err error
		if doc, err = sjson.Set(doc, f.path, f.value); err != nil {
			return "", fmt.Errorf("encode %s: %w", f.path, err)
		}
	}
	return doc, nil
}
