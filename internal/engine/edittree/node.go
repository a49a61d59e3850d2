package edittree

import "math/bits"

// Balance is the AVL balance code of a node: the sign of
// height(left) - height(right), restricted to {-1, 0, +1}.
type Balance uint8

const (
	BalanceSame  Balance = iota // subtrees have equal height
	BalanceLeft                 // left subtree is one level taller
	BalanceRight                // right subtree is one level taller
)

// String returns the symbol used in debug dumps: "=", "/" or "\".
func (b Balance) String() string {
	switch b {
	case BalanceLeft:
		return "/"
	case BalanceRight:
		return "\\"
	default:
		return "="
	}
}

// Node is a node of the tree. The nil *Node is the empty subtree.
//
// Child links own their subtrees. The parent link is a plain back reference
// kept current by every re-link so that viewers can walk upward; it never
// decides ownership.
type Node struct {
	elem    rune
	rank    int // size of the left subtree
	balance Balance

	left, right *Node
	parent      *Node
}

// newNode creates a detached single-element node.
func newNode(r rune) *Node {
	return &Node{elem: r}
}

// Element returns the rune stored in the node.
func (n *Node) Element() rune {
	return n.elem
}

// Rank returns the number of nodes in the left subtree.
func (n *Node) Rank() int {
	return n.rank
}

// Balance returns the node's balance code.
func (n *Node) Balance() Balance {
	return n.balance
}

// Left returns the left child, or nil.
func (n *Node) Left() *Node {
	return n.left
}

// Right returns the right child, or nil.
func (n *Node) Right() *Node {
	return n.right
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// setLeft links c as the left child of n.
func (n *Node) setLeft(c *Node) {
	n.left = c
	if c != nil {
		c.parent = n
	}
}

// setRight links c as the right child of n.
func (n *Node) setRight(c *Node) {
	n.right = c
	if c != nil {
		c.parent = n
	}
}

// sizeOf returns the number of nodes under n by walking the right spine.
func sizeOf(n *Node) int {
	size := 0
	for n != nil {
		size += n.rank + 1
		n = n.right
	}
	return size
}

// heightOf returns the height of n by following the taller side at every
// level. The empty subtree has height -1 and a single node height 0.
func heightOf(n *Node) int {
	h := -1
	for n != nil {
		h++
		if n.balance == BalanceLeft {
			n = n.left
		} else {
			n = n.right
		}
	}
	return h
}

// childHeights derives the heights of n's subtrees from n's height h and
// its balance code.
func childHeights(n *Node, h int) (int, int) {
	switch n.balance {
	case BalanceLeft:
		return h - 1, h - 2
	case BalanceRight:
		return h - 2, h - 1
	default:
		return h - 1, h - 1
	}
}

// heightForSize returns the height of a tree of n nodes built by repeatedly
// taking the middle element as root.
func heightForSize(n int) int {
	return bits.Len(uint(n)) - 1
}

// copyNode deep-copies the subtree rooted at n, preserving its shape.
func copyNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{elem: n.elem, rank: n.rank, balance: n.balance}
	c.setLeft(copyNode(n.left))
	c.setRight(copyNode(n.right))
	return c
}
