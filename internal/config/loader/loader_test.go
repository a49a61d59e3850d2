package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[build]
parallel_threshold = 4096
line_ending = "crlf"

[log]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	require.NoError(t, err)

	build, ok := config["build"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 4096, build["parallel_threshold"])
	assert.Equal(t, "crlf", build["line_ending"])
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoader_ParseError(t *testing.T) {
	_, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("a = \nb = 1"))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "<reader>", perr.Path)
	assert.Positive(t, perr.Line)
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("c.yml", "watch:\n  debounce: 50ms\n")

	config, err := ForPath(memfs, "c.yml").Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"watch": map[string]any{"debounce": "50ms"}}, config)
}

func TestYAMLLoader_ParseError(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("a: [1, 2"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestForPath(t *testing.T) {
	assert.IsType(t, &YAMLLoader{}, ForPath(NewMemFS(), "x.YAML"))
	assert.IsType(t, &TOMLLoader{}, ForPath(NewMemFS(), "x.toml"))
	assert.IsType(t, &TOMLLoader{}, ForPath(NewMemFS(), "x"))
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("EDITTREE_LOG", "debug")
	t.Setenv("EDITTREE_WATCH_DEBOUNCE", "2s")
	t.Setenv("EDITTREE_VIEW_SHOW_RANK", "off")
	t.Setenv("EDITTREE_BUILD_PARALLEL_THRESHOLD", "128")
	t.Setenv("EDITTREE_NOSECTION", "x")

	config, err := NewEnvLoader("EDITTREE_").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", config["log"].(map[string]any)["level"])
	assert.Equal(t, "2s", config["watch"].(map[string]any)["debounce"])
	assert.Equal(t, false, config["view"].(map[string]any)["show_rank"])
	assert.Equal(t, int64(128), config["build"].(map[string]any)["parallel_threshold"])
	assert.NotContains(t, config, "nosection")
}

func TestEnvLoader_AddMapping(t *testing.T) {
	t.Setenv("METRICS_PORT", ":9000")

	l := NewEnvLoaderWithMapping("EDITTREE_", nil)
	l.AddMapping("METRICS_PORT", "metrics.addr")
	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", config["metrics"].(map[string]any)["addr"])
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"log":   map[string]any{"level": "info", "format": "text"},
		"build": map[string]any{"parallel_threshold": 1},
	}
	src := map[string]any{
		"log":   map[string]any{"level": "debug"},
		"build": "replaced",
	}
	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{
		"log":   map[string]any{"level": "debug", "format": "text"},
		"build": "replaced",
	}, got)

	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
}
