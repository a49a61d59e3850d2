package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/edittree/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "EDITTREE_"

// Config is the complete tool configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Build   BuildConfig   `yaml:"build"`
	Script  ScriptConfig  `yaml:"script"`
	View    ViewConfig    `yaml:"view"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// BuildConfig controls how text is loaded into trees.
type BuildConfig struct {
	// ParallelThreshold is the run length at or above which bulk builds
	// fork per half. Zero builds sequentially.
	ParallelThreshold int `yaml:"parallel_threshold"`
	// LineEnding is lf, crlf, cr or auto.
	LineEnding string `yaml:"line_ending"`
}

// ScriptConfig controls the Lua host.
type ScriptConfig struct {
	// Timeout bounds a single script run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// ViewConfig controls the structural viewer.
type ViewConfig struct {
	ShowRank    bool `yaml:"show_rank"`
	ShowBalance bool `yaml:"show_balance"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig controls the Prometheus endpoint of the watch command.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `yaml:"addr"`
	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Build:   BuildConfig{ParallelThreshold: 1 << 16, LineEnding: "auto"},
		Script:  ScriptConfig{Timeout: 10 * time.Second},
		View:    ViewConfig{ShowRank: true, ShowBalance: true},
		Watch:   WatchConfig{Debounce: 100 * time.Millisecond},
		Metrics: MetricsConfig{Namespace: "edittree"},
	}
}

// Load builds a configuration from defaults, the file at path (TOML or YAML
// by extension; skipped when path is empty or missing) and the environment.
func Load(path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS is Load with a custom file system.
func LoadWithFS(fsys loader.FileSystem, path string) (*Config, error) {
	var merged map[string]any
	if path != "" {
		data, err := loader.ForPath(fsys, path).Load()
		if err != nil {
			return nil, err
		}
		merged = data
	}

	env, err := loader.NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, env)

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes the generic settings map over cfg. Keys absent from the map
// keep their current values.
func (c *Config) apply(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Validate checks every setting and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	_, levelErr := parseLevel(c.Log.Level)
	check(levelErr == nil, "log.level", "must be debug, info, warn or error", c.Log.Level)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format", "must be text or json", c.Log.Format)
	check(c.Build.ParallelThreshold >= 0, "build.parallel_threshold", "must not be negative", c.Build.ParallelThreshold)
	switch strings.ToLower(c.Build.LineEnding) {
	case "lf", "crlf", "cr", "auto":
	default:
		check(false, "build.line_ending", "must be lf, crlf, cr or auto", c.Build.LineEnding)
	}
	check(c.Script.Timeout >= 0, "script.timeout", "must not be negative", c.Script.Timeout)
	check(c.Watch.Debounce >= 0, "watch.debounce", "must not be negative", c.Watch.Debounce)

	return errors.Join(errs...)
}

// SlogLevel returns the configured level.
func (l LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(l.Level)
	return level
}

// Handler returns a slog handler writing to w in the configured format.
func (l LogConfig) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}
