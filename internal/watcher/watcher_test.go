package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// start runs w in the background and returns a function that stops it and
// returns Run's result.
func start(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancel)

	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after cancel")
			return nil
		}
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "abc")

	w, err := New(path, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())
	assert.Equal(t, DefaultDebounce, w.debounce)
	require.NoError(t, w.fsw.Close())
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	noop := func(context.Context, string) error { return nil }

	_, err := New(filepath.Join(dir, "missing.txt"), noop)
	assert.ErrorIs(t, err, ErrPathNotExist)

	_, err = New(dir, noop)
	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestWatcherRunsHandlerOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "abc")

	got := make(chan string, 10)
	w, err := New(path, func(_ context.Context, p string) error {
		got <- p
		return nil
	}, WithDebounce(testDebounce))
	require.NoError(t, err)
	stop := start(t, w)

	writeFile(t, path, "abcd")

	select {
	case p := <-got:
		assert.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	require.NoError(t, stop())
	assert.GreaterOrEqual(t, w.Stats().Events, int64(1))
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "")

	var calls atomic.Int64
	w, err := New(path, func(context.Context, string) error {
		calls.Add(1)
		return nil
	}, WithDebounce(200*time.Millisecond))
	require.NoError(t, err)
	stop := start(t, w)

	for i := range 5 {
		writeFile(t, path, string(rune('a'+i)))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
	require.NoError(t, stop())
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "abc")

	var calls atomic.Int64
	w, err := New(path, func(context.Context, string) error {
		calls.Add(1)
		return nil
	}, WithDebounce(testDebounce))
	require.NoError(t, err)
	stop := start(t, w)

	writeFile(t, filepath.Join(dir, "other.txt"), "xyz")
	time.Sleep(5 * testDebounce)

	require.NoError(t, stop())
	assert.Zero(t, calls.Load())
	assert.Zero(t, w.Stats().Events)
}

func TestWatcherHandlerErrorKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "abc")

	var calls atomic.Int64
	w, err := New(path, func(context.Context, string) error {
		calls.Add(1)
		return errors.New("boom")
	}, WithDebounce(testDebounce))
	require.NoError(t, err)
	stop := start(t, w)

	writeFile(t, path, "one")
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	writeFile(t, path, "two")
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, stop())
	stats := w.Stats()
	assert.Equal(t, int64(2), stats.Runs)
	assert.GreaterOrEqual(t, stats.Errors, int64(2))
}

func TestWatcherRunTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "abc")

	w, err := New(path, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	require.NoError(t, start(t, w)())

	assert.ErrorIs(t, w.Run(context.Background()), ErrWatcherClosed)
}

func TestRelevant(t *testing.T) {
	w := &Watcher{path: "/tmp/dir/doc.txt"}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "/tmp/dir/doc.txt", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/tmp/dir/doc.txt", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: "/tmp/dir/doc.txt", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/tmp/dir/doc.txt", Op: fsnotify.Remove}, false},
		{"sibling", fsnotify.Event{Name: "/tmp/dir/other.txt", Op: fsnotify.Write}, false},
		{"unclean", fsnotify.Event{Name: "/tmp/dir/./doc.txt", Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}
