package edittree

import (
	"fmt"
	"strings"
)

// Option configures a Tree during creation.
type Option func(*Tree)

// WithParallelBuild sets the run length at or above which bulk builds fork
// a goroutine per half. Zero or a negative value builds sequentially.
func WithParallelBuild(threshold int) Option {
	return func(t *Tree) {
		t.parallelThreshold = max(threshold, 0)
	}
}

// Tree is a mutable sequence of runes stored in an AVL tree ordered by
// position. The zero value is an empty tree.
type Tree struct {
	root              *Node
	rotations         int
	parallelThreshold int
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{parallelThreshold: DefaultParallelBuildThreshold}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewWithElement creates a single-element tree.
func NewWithElement(r rune, opts ...Option) *Tree {
	t := New(opts...)
	t.root = newNode(r)
	return t
}

// newTree wraps an existing detached subtree in a fresh container.
func newTree(root *Node, threshold int) *Tree {
	return &Tree{root: root, parallelThreshold: threshold}
}

// Clone returns a deep copy of t with the same shape and contents. The copy
// starts with a zero rotation count.
func (t *Tree) Clone() *Tree {
	return newTree(copyNode(t.root), t.parallelThreshold)
}

// setRoot installs n as the root.
func (t *Tree) setRoot(n *Node) {
	if n != nil {
		n.parent = nil
	}
	t.root = n
}

// Root returns the root node for read-only inspection, or nil when empty.
func (t *Tree) Root() *Node {
	return t.root
}

// Size returns the number of elements. It follows the right spine once and
// costs O(log n).
func (t *Tree) Size() int {
	return sizeOf(t.root)
}

// IsEmpty reports whether the tree holds no elements.
func (t *Tree) IsEmpty() bool {
	return t.root == nil
}

// Height returns the tree height: -1 when empty, 0 for a single node.
func (t *Tree) Height() int {
	return heightOf(t.root)
}

// Rotations returns the number of rotations performed since the tree was
// created. A double rotation counts as two.
func (t *Tree) Rotations() int {
	return t.rotations
}

// Get returns the element at pos.
func (t *Tree) Get(pos int) (rune, error) {
	size := t.Size()
	if pos < 0 || pos >= size {
		return 0, fmt.Errorf("get at %d (size %d): %w", pos, size, ErrOutOfRange)
	}
	return nodeAt(t.root, pos).elem, nil
}

// GetRange returns the length elements starting at pos as a string.
func (t *Tree) GetRange(pos, length int) (string, error) {
	size := t.Size()
	if pos < 0 || length < 0 || pos > size-length {
		return "", fmt.Errorf("get range [%d, %d+%d) (size %d): %w",
			pos, pos, length, size, ErrOutOfRange)
	}

	var sb strings.Builder
	sb.Grow(length)
	it := t.iteratorAt(pos, size)
	for i := 0; i < length; i++ {
		sb.WriteRune(it.advance())
	}
	return sb.String(), nil
}

// nodeAt descends from n to the node at pos, which must be in range.
func nodeAt(n *Node, pos int) *Node {
	for {
		switch {
		case pos < n.rank:
			n = n.left
		case pos > n.rank:
			pos -= n.rank + 1
			n = n.right
		default:
			return n
		}
	}
}

// String returns the in-order contents of the tree.
func (t *Tree) String() string {
	var sb strings.Builder
	sb.Grow(t.Size())
	appendTo(t.root, &sb)
	return sb.String()
}

// Runes returns the in-order contents as a slice.
func (t *Tree) Runes() []rune {
	size := t.Size()
	out := make([]rune, 0, size)
	it := t.iteratorAt(0, size)
	for it.HasNext() {
		out = append(out, it.advance())
	}
	return out
}

// appendTo writes the subtree's elements in order.
func appendTo(n *Node, sb *strings.Builder) {
	for n != nil {
		appendTo(n.left, sb)
		sb.WriteRune(n.elem)
		n = n.right
	}
}

// Find returns the position of the first occurrence of s, or -1. It is a
// plain linear scan.
func (t *Tree) Find(s string) int {
	return t.FindFrom(s, 0)
}

// FindFrom returns the position of the first occurrence of s that starts at
// or after pos, or -1. An empty s matches at pos when pos is within
// [0, Size()]. This is deliberate: an empty s reports pos itself, not 0.
func (t *Tree) FindFrom(s string, pos int) int {
	size := t.Size()
	if pos < 0 || pos > size {
		return -1
	}
	needle := []rune(s)
	if len(needle) == 0 {
		return pos
	}
	hay := t.Runes()
	for i := pos; i+len(needle) <= len(hay); i++ {
		if runesEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
