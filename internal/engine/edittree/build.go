package edittree

import "golang.org/x/sync/errgroup"

// DefaultParallelBuildThreshold is the run length at or above which the two
// halves of a bulk build are constructed concurrently.
const DefaultParallelBuildThreshold = 1 << 16

// FromString builds a balanced tree whose in-order sequence is the runes of
// s, in O(n).
func FromString(s string, opts ...Option) *Tree {
	return FromRunes([]rune(s), opts...)
}

// FromRunes builds a balanced tree holding rs, in O(n). rs is not retained.
func FromRunes(rs []rune, opts ...Option) *Tree {
	t := New(opts...)
	t.root = build(rs, t.parallelThreshold)
	return t
}

// build constructs a subtree from rs by taking the middle element as root
// and recursing on both halves. Because the left half is never smaller than
// the right, the tree is height-balanced and each balance code follows
// directly from the half sizes.
func build(rs []rune, threshold int) *Node {
	if len(rs) == 0 {
		return nil
	}

	mid := len(rs) / 2
	n := newNode(rs[mid])
	n.rank = mid
	if heightForSize(mid) > heightForSize(len(rs)-mid-1) {
		n.balance = BalanceLeft
	}

	var left, right *Node
	if threshold > 0 && len(rs) >= threshold {
		var g errgroup.Group
		g.Go(func() error {
			left = build(rs[:mid], threshold)
			return nil
		})
		right = build(rs[mid+1:], threshold)
		_ = g.Wait()
	} else {
		left = build(rs[:mid], threshold)
		right = build(rs[mid+1:], threshold)
	}

	n.setLeft(left)
	n.setRight(right)
	return n
}
