package edittree

// Rotation identifies the restructuring performed by one rebalancing event.
type Rotation uint8

const (
	RotationNone Rotation = iota
	RotationSingleLeft
	RotationSingleRight
	RotationDoubleLeft  // right rotation on the right child, then left rotation
	RotationDoubleRight // left rotation on the left child, then right rotation
)

// String returns a short name for the rotation.
func (r Rotation) String() string {
	switch r {
	case RotationSingleLeft:
		return "single-left"
	case RotationSingleRight:
		return "single-right"
	case RotationDoubleLeft:
		return "double-left"
	case RotationDoubleRight:
		return "double-right"
	default:
		return "none"
	}
}

// Count returns the number of single rotations the event is made of.
func (r Rotation) Count() int {
	switch r {
	case RotationSingleLeft, RotationSingleRight:
		return 1
	case RotationDoubleLeft, RotationDoubleRight:
		return 2
	default:
		return 0
	}
}

// rotateLeft lifts n.right above n and returns it. Ranks and parent links
// are updated; balance codes are the caller's job.
//
//	  n              r
//	 / \            / \
//	a   r    ->    n   c
//	   / \        / \
//	  b   c      a   b
func rotateLeft(n *Node) *Node {
	r := n.right
	parent := n.parent
	n.setRight(r.left)
	r.setLeft(n)
	r.parent = parent
	r.rank += n.rank + 1
	return r
}

// rotateRight lifts n.left above n and returns it.
//
//	    n          l
//	   / \        / \
//	  l   c  ->  a   n
//	 / \            / \
//	a   b          b   c
func rotateRight(n *Node) *Node {
	l := n.left
	parent := n.parent
	n.setLeft(l.right)
	l.setRight(n)
	l.parent = parent
	n.rank -= l.rank + 1
	return l
}

// fixRightHeavy rebalances n whose right subtree is two levels taller than
// its left. It returns the new subtree root, the rotation performed, and
// whether the result is one level shorter than n was while unbalanced.
//
// A balanced right child (only possible after a deletion on the left or a
// join) takes a single rotation that leaves the height unchanged and the
// two nodes tipped toward each other.
func fixRightHeavy(n *Node) (*Node, Rotation, bool) {
	r := n.right
	switch r.balance {
	case BalanceRight:
		root := rotateLeft(n)
		n.balance = BalanceSame
		root.balance = BalanceSame
		return root, RotationSingleLeft, true

	case BalanceSame:
		root := rotateLeft(n)
		n.balance = BalanceRight
		root.balance = BalanceLeft
		return root, RotationSingleLeft, false
	}

	g := r.left
	n.setRight(rotateRight(r))
	root := rotateLeft(n)
	switch g.balance {
	case BalanceRight:
		n.balance, r.balance = BalanceLeft, BalanceSame
	case BalanceLeft:
		n.balance, r.balance = BalanceSame, BalanceRight
	default:
		n.balance, r.balance = BalanceSame, BalanceSame
	}
	root.balance = BalanceSame
	return root, RotationDoubleLeft, true
}

// fixLeftHeavy is the mirror image of fixRightHeavy.
func fixLeftHeavy(n *Node) (*Node, Rotation, bool) {
	l := n.left
	switch l.balance {
	case BalanceLeft:
		root := rotateRight(n)
		n.balance = BalanceSame
		root.balance = BalanceSame
		return root, RotationSingleRight, true

	case BalanceSame:
		root := rotateRight(n)
		n.balance = BalanceLeft
		root.balance = BalanceRight
		return root, RotationSingleRight, false
	}

	g := l.right
	n.setLeft(rotateLeft(l))
	root := rotateRight(n)
	switch g.balance {
	case BalanceLeft:
		n.balance, l.balance = BalanceRight, BalanceSame
	case BalanceRight:
		n.balance, l.balance = BalanceSame, BalanceLeft
	default:
		n.balance, l.balance = BalanceSame, BalanceSame
	}
	root.balance = BalanceSame
	return root, RotationDoubleRight, true
}

// record adds a rotation event to the tree's counter.
func (t *Tree) record(rot Rotation) {
	t.rotations += rot.Count()
}

// grewLeft updates n after its left subtree grew by one level and reports
// whether n's subtree grew as well. At most one rotation happens, after
// which growth always stops.
func (t *Tree) grewLeft(n *Node) (*Node, bool) {
	switch n.balance {
	case BalanceRight:
		n.balance = BalanceSame
		return n, false
	case BalanceSame:
		n.balance = BalanceLeft
		return n, true
	}
	root, rot, _ := fixLeftHeavy(n)
	t.record(rot)
	return root, false
}

// grewRight is the mirror image of grewLeft.
func (t *Tree) grewRight(n *Node) (*Node, bool) {
	switch n.balance {
	case BalanceLeft:
		n.balance = BalanceSame
		return n, false
	case BalanceSame:
		n.balance = BalanceRight
		return n, true
	}
	root, rot, _ := fixRightHeavy(n)
	t.record(rot)
	return root, false
}

// shrankLeft updates n after its left subtree lost one level and reports
// whether n's subtree is now shorter. Unlike growth, shrinking keeps
// propagating through rotations that reduce the height.
func (t *Tree) shrankLeft(n *Node) (*Node, bool) {
	switch n.balance {
	case BalanceLeft:
		n.balance = BalanceSame
		return n, true
	case BalanceSame:
		n.balance = BalanceRight
		return n, false
	}
	root, rot, shorter := fixRightHeavy(n)
	t.record(rot)
	return root, shorter
}

// shrankRight is the mirror image of shrankLeft.
func (t *Tree) shrankRight(n *Node) (*Node, bool) {
	switch n.balance {
	case BalanceRight:
		n.balance = BalanceSame
		return n, true
	case BalanceSame:
		n.balance = BalanceLeft
		return n, false
	}
	root, rot, shorter := fixLeftHeavy(n)
	t.record(rot)
	return root, shorter
}

// settle sets n's balance code from the heights of its subtrees, rotating
// when they differ by two, and returns the subtree root and its height.
func (t *Tree) settle(n *Node, hl, hr int) (*Node, int) {
	switch hr - hl {
	case 2:
		root, rot, shorter := fixRightHeavy(n)
		t.record(rot)
		if shorter {
			return root, hr
		}
		return root, hr + 1
	case -2:
		root, rot, shorter := fixLeftHeavy(n)
		t.record(rot)
		if shorter {
			return root, hl
		}
		return root, hl + 1
	case 1:
		n.balance = BalanceRight
	case -1:
		n.balance = BalanceLeft
	default:
		n.balance = BalanceSame
	}
	return n, max(hl, hr) + 1
}
