package lua

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/edittree/internal/engine/edittree"
)

func newTestState(t *testing.T, opts ...StateOption) (*State, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	state, err := NewState(append([]StateOption{WithOutput(&out)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })
	return state, &out
}

func TestStateDoString(t *testing.T) {
	state, _ := newTestState(t)

	require.NoError(t, state.DoString(context.Background(), `x = 1 + 1`))
	assert.Equal(t, glua.LNumber(2), state.GetGlobal("x"))
}

func TestStateSyntaxError(t *testing.T) {
	state, _ := newTestState(t)
	assert.Error(t, state.DoString(context.Background(), `invalid lua code !!!`))
}

func TestStateSandbox(t *testing.T) {
	state, _ := newTestState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		assert.Equal(t, glua.LNil, state.GetGlobal(name), name)
	}
	for _, name := range []string{"string", "table", "math", "edittree"} {
		assert.NotEqual(t, glua.LNil, state.GetGlobal(name), name)
	}
}

func TestStatePrintRedirect(t *testing.T) {
	state, out := newTestState(t)
	require.NoError(t, state.DoString(context.Background(), `print("a", 1, edittree.new("xy"))`))
	assert.Equal(t, "a\t1\txy\n", out.String())
}

func TestStateTimeout(t *testing.T) {
	state, _ := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	err := state.DoString(context.Background(), `while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)

	// The state stays usable after a timeout.
	require.NoError(t, state.DoString(context.Background(), `y = 3`))
}

func TestStateCancelled(t *testing.T) {
	state, _ := newTestState(t, WithExecutionTimeout(0))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := state.DoString(ctx, `while true do end`)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStateClosed(t *testing.T) {
	state, _ := newTestState(t)
	require.NoError(t, state.Close())
	require.NoError(t, state.Close())

	assert.True(t, state.IsClosed())
	assert.ErrorIs(t, state.DoString(context.Background(), `x = 1`), ErrStateClosed)
	assert.Equal(t, glua.LNil, state.GetGlobal("x"))
}

func TestStateSharedTree(t *testing.T) {
	state, _ := newTestState(t)
	tree := edittree.FromString("hello")
	state.SetTree("doc", tree)

	require.NoError(t, state.DoString(context.Background(), `doc:append("!")`))
	assert.Equal(t, "hello!", tree.String())

	require.NoError(t, state.DoString(context.Background(), `made = edittree.new("abc")`))
	got, ok := state.Tree("made")
	require.True(t, ok)
	assert.Equal(t, "abc", got.String())

	_, ok = state.Tree("missing")
	assert.False(t, ok)
}
