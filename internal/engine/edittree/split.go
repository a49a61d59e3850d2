package edittree

import "fmt"

// Split cuts the tree at pos. t keeps the elements before pos and the
// returned tree holds the elements from pos onward. Nodes move between the
// trees; none are copied. The cost is proportional to the tree height.
func (t *Tree) Split(pos int) (*Tree, error) {
	size := t.Size()
	if pos < 0 || pos >= size {
		return nil, fmt.Errorf("split at %d (size %d): %w", pos, size, ErrOutOfRange)
	}
	left, right := t.splitRoot(t.root, size, pos)
	t.setRoot(left)
	return newTree(right, t.parallelThreshold), nil
}

// DeleteRange removes length elements starting at start and returns them as
// a new tree. It is built from two splits and a concatenation.
func (t *Tree) DeleteRange(start, length int) (*Tree, error) {
	size := t.Size()
	if start < 0 || length < 0 || start > size-length {
		return nil, fmt.Errorf("delete range [%d, %d+%d) (size %d): %w",
			start, start, length, size, ErrOutOfRange)
	}
	if length == 0 {
		return newTree(nil, t.parallelThreshold), nil
	}

	head, rest := t.splitRoot(t.root, size, start)
	removed, tail := t.splitRoot(rest, size-start, length)
	t.setRoot(t.concatRoots(head, tail))
	return newTree(removed, t.parallelThreshold), nil
}

// splitFrame records one step of the walk from the root to the split point.
type splitFrame struct {
	node     *Node
	height   int
	size     int
	wentLeft bool
}

// splitRoot splits the subtree rooted at root, holding size nodes, into the
// nodes before pos and the nodes from pos onward. pos == size yields
// (root, nil). Both results are balanced and detached.
func (t *Tree) splitRoot(root *Node, size, pos int) (*Node, *Node) {
	if pos >= size {
		return root, nil
	}

	path := make([]splitFrame, 0, 2*heightForSize(size)+2)
	n, h, s := root, heightOf(root), size
	for {
		f := splitFrame{node: n, height: h, size: s}
		if pos == n.rank {
			path = append(path, f)
			break
		}
		hl, hr := childHeights(n, h)
		if pos < n.rank {
			f.wentLeft = true
			path = append(path, f)
			n, h, s = n.left, hl, n.rank
		} else {
			path = append(path, f)
			pos -= n.rank + 1
			n, h, s = n.right, hr, s-n.rank-1
		}
	}

	target := path[len(path)-1]
	hl, hr := childHeights(target.node, target.height)
	left, lh := target.node.left, hl
	if left != nil {
		left.parent = nil
	}

	// The target starts the right-hand tree: nil ++ target ++ target.right.
	rs := target.size - target.node.rank
	right, rh := t.join(nil, -1, 0, target.node, target.node.right, hr)

	for i := len(path) - 2; i >= 0; i-- {
		f := path[i]
		fl, fr := childHeights(f.node, f.height)
		if f.wentLeft {
			// f and its right subtree follow the split point. join rewrites
			// f's rank, so take the size first.
			grow := f.size - f.node.rank
			right, rh = t.join(right, rh, rs, f.node, f.node.right, fr)
			rs += grow
		} else {
			// f and its left subtree precede it.
			left, lh = t.join(f.node.left, fl, f.node.rank, f.node, left, lh)
		}
	}
	return left, right
}
