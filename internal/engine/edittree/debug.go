package edittree

import (
	"fmt"
	"strconv"
	"strings"
)

// DebugString returns a pre-order dump of every node as element, rank and
// balance code, e.g. "[b1=, a0=, c0=]" for the tree with root b and
// children a and c.
func (t *Tree) DebugString() string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteRune(n.elem)
		sb.WriteString(strconv.Itoa(n.rank))
		sb.WriteString(n.balance.String())
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	sb.WriteByte(']')
	return sb.String()
}

// SlowSize counts every node. It is a verification aid for Size.
func (t *Tree) SlowSize() int {
	var count func(n *Node) int
	count = func(n *Node) int {
		if n == nil {
			return 0
		}
		return 1 + count(n.left) + count(n.right)
	}
	return count(t.root)
}

// SlowHeight measures the height by visiting every node. It is a
// verification aid for Height.
func (t *Tree) SlowHeight() int {
	var height func(n *Node) int
	height = func(n *Node) int {
		if n == nil {
			return -1
		}
		return 1 + max(height(n.left), height(n.right))
	}
	return height(t.root)
}

// InvariantError describes the first structural violation found by Check.
type InvariantError struct {
	Position int // in-order position of the offending node
	Element  rune
	Reason   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("node %q at %d: %s", e.Element, e.Position, e.Reason)
}

// Check walks the whole tree and verifies the AVL height invariant, every
// balance code, every rank, the parent links and that Size agrees with a
// full count. It returns an *InvariantError for the first violation.
func (t *Tree) Check() error {
	if t.root != nil && t.root.parent != nil {
		return &InvariantError{Position: t.root.rank, Element: t.root.elem, Reason: "root has a parent"}
	}

	// check returns the subtree's size and height.
	var check func(n *Node, offset int) (int, int, error)
	check = func(n *Node, offset int) (int, int, error) {
		if n == nil {
			return 0, -1, nil
		}
		pos := offset + n.rank
		fail := func(format string, args ...any) (int, int, error) {
			return 0, 0, &InvariantError{Position: pos, Element: n.elem, Reason: fmt.Sprintf(format, args...)}
		}

		if n.left != nil && n.left.parent != n {
			return fail("left child has wrong parent")
		}
		if n.right != nil && n.right.parent != n {
			return fail("right child has wrong parent")
		}

		ls, lh, err := check(n.left, offset)
		if err != nil {
			return 0, 0, err
		}
		rs, rh, err := check(n.right, pos+1)
		if err != nil {
			return 0, 0, err
		}

		if n.rank != ls {
			return fail("rank %d, left subtree holds %d", n.rank, ls)
		}
		var want Balance
		switch lh - rh {
		case 0:
			want = BalanceSame
		case 1:
			want = BalanceLeft
		case -1:
			want = BalanceRight
		default:
			return fail("subtree heights %d and %d", lh, rh)
		}
		if n.balance != want {
			return fail("balance %s, heights %d and %d", n.balance, lh, rh)
		}
		return ls + rs + 1, max(lh, rh) + 1, nil
	}

	size, height, err := check(t.root, 0)
	if err != nil {
		return err
	}
	if got := t.Size(); got != size {
		return &InvariantError{Position: -1, Reason: fmt.Sprintf("Size() = %d, counted %d", got, size)}
	}
	if got := t.Height(); got != height {
		return &InvariantError{Position: -1, Reason: fmt.Sprintf("Height() = %d, measured %d", got, height)}
	}
	return nil
}
