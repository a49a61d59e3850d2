package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/edittree/internal/config"
	"github.com/dshills/edittree/internal/engine/buffer"
)

// cli holds state shared by every command once the root has run.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger

	// newScreen returns an initialized screen for the viewer.
	newScreen func() (tcell.Screen, error)
}

func newRootCmd() *cobra.Command {
	return rootCmd(&cli{newScreen: terminalScreen})
}

func rootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "edittree",
		Short: "Inspect and script order-statistics AVL trees holding text",
		Long: `edittree builds balanced edit trees from text and lets you look inside them:
dump their shape, browse them in a terminal viewer, drive them from Lua
scripts, or follow a file and export tree statistics to Prometheus.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newBuildCmd(c),
		newDumpCmd(c),
		newRunCmd(c),
		newViewCmd(c),
		newWatchCmd(c),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = slog.New(cfg.Log.Handler(cmd.ErrOrStderr()))
	c.logger.Debug("configuration loaded", "path", c.configPath, "threshold", cfg.Build.ParallelThreshold)
	return nil
}

// bufferOptions turns the build settings into buffer options for text.
func (c *cli) bufferOptions(text string) []buffer.Option {
	opts := []buffer.Option{buffer.WithParallelBuild(c.cfg.Build.ParallelThreshold)}
	switch strings.ToLower(c.cfg.Build.LineEnding) {
	case "lf":
		opts = append(opts, buffer.WithLF())
	case "crlf":
		opts = append(opts, buffer.WithCRLF())
	case "cr":
		opts = append(opts, buffer.WithCR())
	default:
		opts = append(opts, buffer.WithDetectedLineEnding(text))
	}
	return opts
}

// readSource returns the contents of path, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func terminalScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}
