package edittree

import "errors"

// Errors returned by tree operations.
var (
	// ErrOutOfRange indicates a position or range outside the sequence.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidArgument indicates an argument the operation cannot accept,
	// such as concatenating a tree with itself.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConcurrentModification indicates the tree changed size while an
	// iterator was walking it.
	ErrConcurrentModification = errors.New("tree modified during iteration")

	// ErrIllegalState indicates Remove was called without a preceding
	// successful Next.
	ErrIllegalState = errors.New("iterator has no element to remove")

	// ErrNoSuchElement indicates Next was called on an exhausted iterator.
	ErrNoSuchElement = errors.New("no more elements")
)
