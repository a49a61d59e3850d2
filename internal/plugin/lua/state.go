package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/edittree/internal/engine/edittree"
)

// DefaultExecutionTimeout bounds a single DoFile or DoString call.
const DefaultExecutionTimeout = 10 * time.Second

// State wraps a gopher-lua state with the sandbox and the edittree module.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout  time.Duration
	parallelThreshold int
	out               io.Writer
	logger            *slog.Logger

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the deadline applied to each run. Zero disables
// it; the caller's context still applies.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithOutput redirects the print function.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		s.out = w
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *slog.Logger) StateOption {
	return func(s *State) {
		s.logger = l
	}
}

// WithParallelBuild sets the bulk-build threshold of trees created by
// edittree.new.
func WithParallelBuild(threshold int) StateOption {
	return func(s *State) {
		s.parallelThreshold = threshold
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout:  DefaultExecutionTimeout,
		parallelThreshold: edittree.DefaultParallelBuildThreshold,
		out:               os.Stdout,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	state.L = L

	openSafeLibraries(L)
	installSandbox(L, state.out)
	registerTreeModule(L, state.parallelThreshold)

	return state, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package.
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, path, func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, "<string>", func() error {
		return s.L.DoString(code)
	})
}

// run executes fn under the lock with the state's deadline and panic
// recovery.
func (s *State) run(ctx context.Context, name string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && ctx.Err() != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%s: %w", name, ErrExecutionTimeout)
			} else {
				err = fmt.Errorf("%s: %w", name, ctx.Err())
			}
		}
		s.logger.Debug("lua run finished", "script", name, "duration", time.Since(start), "error", err)
	}()

	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetTree exposes t to scripts as the global name. The script shares the
// tree with the caller.
func (s *State) SetTree(name string, t *edittree.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, newTreeValue(s.L, t))
}

// Tree returns the tree held by the global name, if any.
func (s *State) Tree(name string) (*edittree.Tree, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	ud, ok := s.L.GetGlobal(name).(*lua.LUserData)
	if !ok {
		return nil, false
	}
	t, ok := ud.Value.(*edittree.Tree)
	return t, ok
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
