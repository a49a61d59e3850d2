// Package watcher reruns a handler whenever a single file changes on disk.
//
// The file's directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// keep being followed. Bursts of events are coalesced into one handler call.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

var (
	// ErrPathNotExist is returned when the watched file does not exist.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrNotAFile is returned when the watched path is a directory.
	ErrNotAFile = errors.New("path is a directory")

	// ErrWatcherClosed is returned by Run after the watcher has stopped.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// Handler is called with the watched path after it changed.
type Handler func(ctx context.Context, path string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before the handler
// runs. Non-positive values select DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch events and handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Stats holds counters for a watcher.
type Stats struct {
	Events int64 // relevant filesystem events seen
	Runs   int64 // handler invocations
	Errors int64 // watch and handler errors
}

// Watcher follows one file.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger

	fsw    *fsnotify.Watcher
	closed atomic.Bool

	events atomic.Int64
	runs   atomic.Int64
	errs   atomic.Int64
}

// New starts watching path. Events that happen after New returns are
// delivered once Run is called.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	w := &Watcher{
		path:     absPath,
		debounce: DefaultDebounce,
		handler:  handler,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Stats returns the watcher's counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Events: w.events.Load(),
		Runs:   w.runs.Load(),
		Errors: w.errs.Load(),
	}
}

// Run dispatches change events to the handler until ctx is done. It returns
// nil on cancellation. A failing handler is logged and does not stop the
// watcher. The watcher cannot be restarted once Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	if w.closed.Swap(true) {
		return ErrWatcherClosed
	}
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(ev) {
				continue
			}
			w.events.Add(1)
			w.logger.Debug("file changed", "path", w.path, "op", ev.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.errs.Add(1)
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-fire:
			fire = nil
			w.runs.Add(1)
			if err := w.handler(ctx, w.path); err != nil {
				w.errs.Add(1)
				w.logger.Warn("change handler failed", "path", w.path, "error", err)
			}
		}
	}
}

// relevant reports whether ev changed the watched file's contents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
