// Package edittree provides an order-statistics AVL tree used as the
// storage engine for text buffers.
//
// The tree is an indexed, mutable sequence of runes. Every node carries a
// rank (the size of its left subtree) and an AVL balance code, so that
// position-based insert, delete and lookup run in O(log n) without the
// O(n) shifting cost of a flat array. Whole sequences can be split and
// concatenated in time proportional to the tree height.
//
// Key features:
//   - O(log n) Insert, Delete and Get by position
//   - O(log n) Size via the right spine, O(log n) Height via balance codes
//   - Split and Concatenate by tree surgery, never by reinsertion
//   - O(n) bulk construction from a full sequence, optionally in parallel
//   - A rotation counter for verifying the logarithmic rebalancing bounds
//
// Basic usage:
//
//	t := edittree.FromString("abcdef")
//	_ = t.Insert(3, 'x')           // "abcxdef"
//	r, _ := t.Delete(0)            // r == 'a', "bcxdef"
//	tail, _ := t.Split(3)          // t == "bcx", tail == "def"
//	_ = t.Concatenate(tail)        // t == "bcxdef", tail is empty
//
// A Tree is not safe for concurrent use. Callers that share a tree between
// goroutines must serialize access themselves; see the buffer package for a
// locked wrapper.
package edittree
