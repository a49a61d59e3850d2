package edittree

import "fmt"

// Iterator walks a tree in order with an explicit stack.
//
// The iterator remembers the tree size at creation and fails with
// ErrConcurrentModification if the size changes underneath it. Changes made
// through Remove are accounted for.
type Iterator struct {
	tree  *Tree
	stack []*Node
	size  int // size observed when the iterator was positioned
	pos   int // position of the element Next returns
	last  int // position of the element Remove would delete, or -1
}

// Iterator returns an iterator positioned at the first element.
func (t *Tree) Iterator() *Iterator {
	return t.iteratorAt(0, t.Size())
}

// IteratorAt returns an iterator positioned at pos. pos may equal Size(),
// giving an exhausted iterator.
func (t *Tree) IteratorAt(pos int) (*Iterator, error) {
	size := t.Size()
	if pos < 0 || pos > size {
		return nil, fmt.Errorf("iterator at %d (size %d): %w", pos, size, ErrOutOfRange)
	}
	return t.iteratorAt(pos, size), nil
}

func (t *Tree) iteratorAt(pos, size int) *Iterator {
	it := &Iterator{
		tree:  t,
		stack: make([]*Node, 0, 2*heightForSize(size)+2),
		size:  size,
		last:  -1,
	}
	it.seek(pos)
	return it
}

// seek rebuilds the stack so the next element is the one at pos. Every
// node where the descent goes left, and the target itself, stays pending.
func (it *Iterator) seek(pos int) {
	it.stack = it.stack[:0]
	it.pos = pos
	n := it.tree.root
	for n != nil {
		switch {
		case pos <= n.rank:
			it.stack = append(it.stack, n)
			if pos == n.rank {
				return
			}
			n = n.left
		default:
			pos -= n.rank + 1
			n = n.right
		}
	}
}

// HasNext reports whether Next has another element to return.
func (it *Iterator) HasNext() bool {
	return len(it.stack) > 0
}

// Next returns the next element in order.
func (it *Iterator) Next() (rune, error) {
	if it.tree.Size() != it.size {
		return 0, ErrConcurrentModification
	}
	if len(it.stack) == 0 {
		return 0, ErrNoSuchElement
	}
	return it.advance(), nil
}

// advance pops the next element without the modification check. The stack
// must not be empty.
func (it *Iterator) advance() rune {
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	for c := n.right; c != nil; c = c.left {
		it.stack = append(it.stack, c)
	}

	it.last = it.pos
	it.pos++
	return n.elem
}

// Remove deletes the element most recently returned by Next. It may be
// called once per Next.
func (it *Iterator) Remove() error {
	if it.last < 0 {
		return ErrIllegalState
	}
	if it.tree.Size() != it.size {
		return ErrConcurrentModification
	}
	if _, err := it.tree.Delete(it.last); err != nil {
		return err
	}

	// Deletion may rotate nodes that are on the stack, so reposition.
	it.size--
	it.seek(it.last)
	it.last = -1
	return nil
}
