package edittree

import "fmt"

// Concatenate appends the contents of other to t. other is left empty: its
// nodes now belong to t. Concatenating a tree with itself is rejected.
//
// The cost is proportional to the tree heights, not their sizes.
func (t *Tree) Concatenate(other *Tree) error {
	if other == t {
		return fmt.Errorf("concatenate tree with itself: %w", ErrInvalidArgument)
	}
	if other == nil || other.root == nil {
		return nil
	}
	t.setRoot(t.concatRoots(t.root, other.root))
	other.root = nil
	return nil
}

// concatRoots joins the sequences a and b into one balanced tree and
// returns its root. Rotations are charged to t.
func (t *Tree) concatRoots(a, b *Node) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	ha, hb := heightOf(a), heightOf(b)
	sa := sizeOf(a)

	// The bridging node comes from the side adjacent to the seam: the first
	// element of b when a is at least as tall, the last element of a
	// otherwise.
	var mid *Node
	if ha >= hb {
		var r rune
		b, r, _ = t.deleteAt(b, 0)
		mid = newNode(r)
		hb = heightOf(b)
	} else {
		var r rune
		a, r, _ = t.deleteMax(a)
		mid = newNode(r)
		ha = heightOf(a)
		sa--
	}

	root, _ := t.join(a, ha, sa, mid, b, hb)
	return root
}

// join pastes left, mid and right into one balanced subtree holding the
// sequence left ++ mid ++ right. hl and hr are the subtree heights and sl the
// size of left; mid is any node, its old links are overwritten. It returns
// the new root, detached from any parent, and its height.
func (t *Tree) join(left *Node, hl, sl int, mid, right *Node, hr int) (*Node, int) {
	var root *Node
	var h int
	switch {
	case hl > hr+1:
		root, h = t.joinRight(left, hl, sl, mid, right, hr)
	case hr > hl+1:
		root, h = t.joinLeft(left, hl, sl, mid, right, hr)
	default:
		root, h = t.link(left, hl, sl, mid, right, hr)
	}
	root.parent = nil
	return root, h
}

// link makes mid the parent of left and right, whose heights differ by at
// most one.
func (t *Tree) link(left *Node, hl, sl int, mid, right *Node, hr int) (*Node, int) {
	mid.setLeft(left)
	mid.setRight(right)
	mid.rank = sl
	return t.settle(mid, hl, hr)
}

// joinRight descends the right spine of the taller left tree until the
// subtree there is at most one level taller than right, attaches mid at that
// point and rebalances on the way back up.
func (t *Tree) joinRight(left *Node, hl, sl int, mid, right *Node, hr int) (*Node, int) {
	if hl <= hr+1 {
		return t.link(left, hl, sl, mid, right, hr)
	}

	// A left-tipped node has a right subtree two levels shorter than itself.
	hll, hlr := childHeights(left, hl)
	child, h := t.joinRight(left.right, hlr, sl-left.rank-1, mid, right, hr)
	left.setRight(child)
	return t.settle(left, hll, h)
}

// joinLeft descends the left spine of the taller right tree. Every node
// passed on the way down gains left and mid in its left subtree.
func (t *Tree) joinLeft(left *Node, hl, sl int, mid, right *Node, hr int) (*Node, int) {
	if hr <= hl+1 {
		return t.link(left, hl, sl, mid, right, hr)
	}

	hrl, hrr := childHeights(right, hr)
	child, h := t.joinLeft(left, hl, sl, mid, right.left, hrl)
	right.setLeft(child)
	right.rank += sl + 1
	return t.settle(right, h, hrr)
}
