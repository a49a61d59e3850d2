package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/edittree/internal/engine/edittree"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
	ErrSameBuffer       = errors.New("cannot append a buffer to itself")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// lineBreak returns the rune that ends every line.
func (le LineEnding) lineBreak() rune {
	if le == LineEndingCR {
		return '\r'
	}
	return '\n'
}

// Buffer wraps an edittree.Tree with editor functionality.
// All methods are thread-safe.
type Buffer struct {
	mu                sync.RWMutex
	id                uuid.UUID
	tree              *edittree.Tree
	revisionID        RevisionID
	lineEnding        LineEnding
	parallelThreshold int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		id:                uuid.New(),
		revisionID:        NewRevisionID(),
		lineEnding:        LineEndingLF,
		parallelThreshold: edittree.DefaultParallelBuildThreshold,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.tree = b.newTree(nil)
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.tree = b.newTree([]rune(b.normalizeLineEndings(s)))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// CRLF sequences may straddle read boundaries, so normalize the whole
	// input at once.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

func (b *Buffer) newTree(rs []rune) *edittree.Tree {
	return edittree.FromRunes(rs, edittree.WithParallelBuild(b.parallelThreshold))
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') && b.lineEnding == LineEndingLF {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding != LineEndingLF {
		s = strings.ReplaceAll(s, "\n", b.lineEnding.Sequence())
	}
	return s
}

// Read Operations

// ID returns the buffer's identity, stable for its lifetime.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.String()
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end Offset) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.validRange(start, end) {
		return "", ErrRangeInvalid
	}
	return b.tree.GetRange(start, end-start)
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Size()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.IsEmpty()
}

// RuneAt returns the rune at offset and whether offset was in range.
func (b *Buffer) RuneAt(offset Offset) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, err := b.tree.Get(offset)
	return r, err == nil
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineCount(b.tree, b.lineEnding)
}

// LineText returns the text of a line without its line ending.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineText(b.tree, b.lineEnding, line)
}

// OffsetToPoint converts a rune offset to line/column.
func (b *Buffer) OffsetToPoint(offset Offset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offsetToPoint(b.tree, b.lineEnding, offset)
}

// PointToOffset converts line/column to a rune offset.
func (b *Buffer) PointToOffset(p Point) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return pointToOffset(b.tree, b.lineEnding, p)
}

// Find returns the offset of the first occurrence of s at or after from,
// or -1.
func (b *Buffer) Find(s string, from Offset) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.FindFrom(s, from)
}

// Height returns the height of the underlying tree.
func (b *Buffer) Height() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Height()
}

// Rotations returns the rotations performed by edits on this buffer.
func (b *Buffer) Rotations() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Rotations()
}

// DebugString returns the tree's node dump.
func (b *Buffer) DebugString() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.DebugString()
}

// Check verifies the structural invariants of the underlying tree.
func (b *Buffer) Check() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Check()
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the offset just past the inserted text.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > b.tree.Size() {
		return 0, ErrOffsetOutOfRange
	}

	rs := []rune(b.normalizeLineEndings(text))
	if err := b.insertRunes(offset, rs); err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return offset + len(rs), nil
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end Offset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validRange(start, end) {
		return ErrRangeInvalid
	}

	if _, err := b.tree.DeleteRange(start, end-start); err != nil {
		return err
	}
	b.revisionID = NewRevisionID()

	return nil
}

// Replace replaces the text in [start, end) with text.
// Returns the offset just past the replacement.
func (b *Buffer) Replace(start, end Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validRange(start, end) {
		return 0, ErrRangeInvalid
	}

	_, n, err := b.replace(start, end, text)
	if err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return start + n, nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validRange(edit.Range.Start, edit.Range.End) {
		return EditResult{}, ErrRangeInvalid
	}

	oldText, n, err := b.replace(edit.Range.Start, edit.Range.End, edit.NewText)
	if err != nil {
		return EditResult{}, err
	}
	b.revisionID = NewRevisionID()

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: edit.Range.Start + n},
		OldText:  oldText,
		Delta:    n - edit.Range.Len(),
	}, nil
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}
	for _, edit := range edits {
		if !b.validRange(edit.Range.Start, edit.Range.End) {
			return ErrRangeInvalid
		}
	}

	for _, edit := range edits {
		if _, _, err := b.replace(edit.Range.Start, edit.Range.End, edit.NewText); err != nil {
			return err
		}
	}

	b.revisionID = NewRevisionID()
	return nil
}

// Split moves the text from offset onward into a new buffer with the same
// settings and returns it. offset may equal Len, giving an empty buffer.
func (b *Buffer) Split(offset Offset) (*Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.tree.Size()
	if offset < 0 || offset > size {
		return nil, ErrOffsetOutOfRange
	}

	nb := &Buffer{
		id:                uuid.New(),
		revisionID:        NewRevisionID(),
		lineEnding:        b.lineEnding,
		parallelThreshold: b.parallelThreshold,
	}
	if offset == size {
		nb.tree = nb.newTree(nil)
		return nb, nil
	}

	right, err := b.tree.Split(offset)
	if err != nil {
		return nil, err
	}
	nb.tree = right
	b.revisionID = NewRevisionID()
	return nb, nil
}

// Append moves the whole content of other to the end of b, leaving other
// empty. The cost is logarithmic in the buffer sizes.
func (b *Buffer) Append(other *Buffer) error {
	if other == b {
		return ErrSameBuffer
	}

	unlock := lockPair(b, other)
	defer unlock()

	if other.tree.IsEmpty() {
		return nil
	}
	if err := b.tree.Concatenate(other.tree); err != nil {
		return err
	}
	b.revisionID = NewRevisionID()
	other.revisionID = NewRevisionID()
	return nil
}

// lockPair write-locks two distinct buffers in ID order so that concurrent
// appends in opposite directions cannot deadlock.
func lockPair(a, b *Buffer) func() {
	first, second := a, b
	if strings.Compare(a.id.String(), b.id.String()) > 0 {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// validRange reports whether [start, end) lies within the buffer.
func (b *Buffer) validRange(start, end Offset) bool {
	return start >= 0 && start <= end && end <= b.tree.Size()
}

// replace swaps [start, end) for text and returns the removed text and the
// number of runes inserted. The range must be valid.
func (b *Buffer) replace(start, end Offset, text string) (string, int, error) {
	var old string
	if end > start {
		removed, err := b.tree.DeleteRange(start, end-start)
		if err != nil {
			return "", 0, err
		}
		old = removed.String()
	}

	rs := []rune(b.normalizeLineEndings(text))
	if err := b.insertRunes(start, rs); err != nil {
		return "", 0, err
	}
	return old, len(rs), nil
}

// insertRunes places rs at offset. A single rune takes the positional
// insert path; longer runs are bulk-built and spliced in with a split and
// two concatenations.
func (b *Buffer) insertRunes(offset Offset, rs []rune) error {
	switch len(rs) {
	case 0:
		return nil
	case 1:
		return b.tree.Insert(offset, rs[0])
	}

	mid := b.newTree(rs)
	if offset == b.tree.Size() {
		return b.tree.Concatenate(mid)
	}

	right, err := b.tree.Split(offset)
	if err != nil {
		return err
	}
	if err := b.tree.Concatenate(mid); err != nil {
		return err
	}
	return b.tree.Concatenate(right)
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// Snapshot returns a read-only copy of the current buffer state. Taking it
// costs O(n); reading it needs no locks.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		tree:       b.tree.Clone(),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}
