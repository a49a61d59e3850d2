package edittree

import "fmt"

// Insert places r at position pos, shifting later elements right.
// pos may equal Size(), which appends.
func (t *Tree) Insert(pos int, r rune) error {
	size := t.Size()
	if pos < 0 || pos > size {
		return fmt.Errorf("insert at %d (size %d): %w", pos, size, ErrOutOfRange)
	}
	root, _ := t.insertAt(t.root, pos, r)
	t.setRoot(root)
	return nil
}

// Append adds r after the last element.
func (t *Tree) Append(r rune) {
	root, _ := t.insertAt(t.root, t.Size(), r)
	t.setRoot(root)
}

// insertAt inserts r at pos within the subtree rooted at n. It returns the
// new subtree root and whether the subtree grew taller.
func (t *Tree) insertAt(n *Node, pos int, r rune) (*Node, bool) {
	if n == nil {
		return newNode(r), true
	}

	if pos > n.rank {
		child, grew := t.insertAt(n.right, pos-n.rank-1, r)
		n.setRight(child)
		if !grew {
			return n, false
		}
		return t.grewRight(n)
	}

	// pos == n.rank lands as the right-most node of the left subtree.
	n.rank++
	child, grew := t.insertAt(n.left, pos, r)
	n.setLeft(child)
	if !grew {
		return n, false
	}
	return t.grewLeft(n)
}
