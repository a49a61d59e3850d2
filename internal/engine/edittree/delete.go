package edittree

import "fmt"

// Delete removes and returns the element at pos.
func (t *Tree) Delete(pos int) (rune, error) {
	size := t.Size()
	if pos < 0 || pos >= size {
		return 0, fmt.Errorf("delete at %d (size %d): %w", pos, size, ErrOutOfRange)
	}
	root, r, _ := t.deleteAt(t.root, pos)
	t.setRoot(root)
	return r, nil
}

// deleteAt removes the node at pos from the subtree rooted at n. It returns
// the new subtree root, the removed element, and whether the subtree got
// shorter. pos must be in range.
func (t *Tree) deleteAt(n *Node, pos int) (*Node, rune, bool) {
	switch {
	case pos < n.rank:
		n.rank--
		child, r, shrank := t.deleteAt(n.left, pos)
		n.setLeft(child)
		if !shrank {
			return n, r, false
		}
		root, shrank := t.shrankLeft(n)
		return root, r, shrank

	case pos > n.rank:
		child, r, shrank := t.deleteAt(n.right, pos-n.rank-1)
		n.setRight(child)
		if !shrank {
			return n, r, false
		}
		root, shrank := t.shrankRight(n)
		return root, r, shrank
	}

	r := n.elem
	if n.left == nil || n.right == nil {
		child := n.left
		if child == nil {
			child = n.right
		}
		if child != nil {
			child.parent = n.parent
		}
		n.left, n.right, n.parent = nil, nil, nil
		return child, r, true
	}

	// Two children: take over the in-order successor's element and remove
	// the successor node instead.
	child, succ, shrank := t.deleteMin(n.right)
	n.elem = succ
	n.setRight(child)
	if !shrank {
		return n, r, false
	}
	root, shrank := t.shrankRight(n)
	return root, r, shrank
}

// deleteMin removes the left-most node under n, rebalancing on the way
// back up, and returns the new subtree root, the removed element, and
// whether the subtree got shorter.
func (t *Tree) deleteMin(n *Node) (*Node, rune, bool) {
	if n.left == nil {
		right := n.right
		if right != nil {
			right.parent = n.parent
		}
		n.right, n.parent = nil, nil
		return right, n.elem, true
	}

	n.rank--
	child, r, shrank := t.deleteMin(n.left)
	n.setLeft(child)
	if !shrank {
		return n, r, false
	}
	root, shrank := t.shrankLeft(n)
	return root, r, shrank
}

// deleteMax removes the right-most node under n.
func (t *Tree) deleteMax(n *Node) (*Node, rune, bool) {
	if n.right == nil {
		left := n.left
		if left != nil {
			left.parent = n.parent
		}
		n.left, n.parent = nil, nil
		return left, n.elem, true
	}

	child, r, shrank := t.deleteMax(n.right)
	n.setRight(child)
	if !shrank {
		return n, r, false
	}
	root, shrank := t.shrankRight(n)
	return root, r, shrank
}
