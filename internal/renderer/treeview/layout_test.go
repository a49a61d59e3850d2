package treeview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/edittree/internal/engine/edittree"
)

func TestLayout(t *testing.T) {
	tr := edittree.FromString("abcd")
	placements := Layout(tr.Root())
	require.Len(t, placements, 4)

	want := []struct {
		elem rune
		x, y int
	}{
		{'a', 0, 2},
		{'b', 1, 1},
		{'c', 2, 0},
		{'d', 3, 1},
	}
	for i, w := range want {
		p := placements[i]
		assert.Equal(t, w.elem, p.Node.Element(), "placement %d", i)
		assert.Equal(t, w.x, p.X, "placement %d", i)
		assert.Equal(t, w.y, p.Y, "placement %d", i)
	}
	assert.Equal(t, 2, Depth(placements))
}

func TestLayoutEmpty(t *testing.T) {
	assert.Empty(t, Layout(nil))
	assert.Equal(t, -1, Depth(nil))
}

func TestLayoutMatchesTree(t *testing.T) {
	tr := edittree.New()
	for _, r := range "the quick brown fox" {
		tr.Append(r)
	}
	placements := Layout(tr.Root())
	require.Len(t, placements, tr.Size())
	assert.Equal(t, tr.Height(), Depth(placements))

	for i, p := range placements {
		r, err := tr.Get(i)
		require.NoError(t, err)
		assert.Equal(t, r, p.Node.Element())
	}
}

func TestLabel(t *testing.T) {
	tr := edittree.FromString("a b")
	root := tr.Root()
	require.Equal(t, ' ', root.Element())

	assert.Equal(t, "·1=", Label(root, true, true))
	assert.Equal(t, "·1", Label(root, true, false))
	assert.Equal(t, "·=", Label(root, false, true))
	assert.Equal(t, "·", Label(root, false, false))
}

func TestGlyph(t *testing.T) {
	tests := map[rune]rune{
		'x':    'x',
		' ':    '·',
		'\n':   '↵',
		'\t':   '→',
		'\x01': '?',
		'\x7f': '?',
		'世':    '世',
	}
	for in, want := range tests {
		assert.Equal(t, want, glyph(in), "glyph(%q)", in)
	}
}
