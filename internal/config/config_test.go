package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
	assert.Equal(t, 1<<16, cfg.Build.ParallelThreshold)
}

func TestLoadTOML(t *testing.T) {
	fsys := memFS{"/etc/edittree.toml": `
[log]
level = "debug"
format = "json"

[build]
parallel_threshold = 1024

[script]
timeout = "2s"
`}
	cfg, err := LoadWithFS(fsys, "/etc/edittree.toml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1024, cfg.Build.ParallelThreshold)
	assert.Equal(t, 2*time.Second, cfg.Script.Timeout)
	// Untouched sections keep their defaults.
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "edittree", cfg.Metrics.Namespace)
}

func TestLoadYAML(t *testing.T) {
	fsys := memFS{"cfg.yaml": `
watch:
  debounce: 250ms
metrics:
  addr: ":9100"
view:
  show_rank: false
`}
	cfg, err := LoadWithFS(fsys, "cfg.yaml")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.False(t, cfg.View.ShowRank)
	assert.True(t, cfg.View.ShowBalance)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFS(memFS{}, "absent.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("EDITTREE_LOG_LEVEL", "warn")
	t.Setenv("EDITTREE_BUILD_PARALLEL_THRESHOLD", "0")
	t.Setenv("EDITTREE_WATCH_DEBOUNCE", "1s")

	fsys := memFS{"c.toml": "[log]\nlevel = \"debug\"\n"}
	cfg, err := LoadWithFS(fsys, "c.toml")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Build.ParallelThreshold)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadParseError(t *testing.T) {
	_, err := LoadWithFS(memFS{"bad.toml": "[log\nlevel ="}, "bad.toml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Build.ParallelThreshold = -1
	cfg.Build.LineEnding = "nel"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "log.level", verr.Path)
	for _, path := range []string{"log.format", "build.parallel_threshold", "build.line_ending"} {
		assert.Contains(t, err.Error(), path)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(LogConfig{Level: "debug", Format: "json"}.Handler(&buf))
	logger.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger = slog.New(LogConfig{Level: "error", Format: "text"}.Handler(&buf))
	logger.Info("dropped")
	assert.Empty(t, buf.String())
}
