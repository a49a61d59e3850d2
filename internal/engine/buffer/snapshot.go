package buffer

import "github.com/dshills/edittree/internal/engine/edittree"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	tree       *edittree.Tree
	revisionID RevisionID
	lineEnding LineEnding
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.tree.String()
}

// TextRange returns the text in [start, end).
func (s *Snapshot) TextRange(start, end Offset) (string, error) {
	if start < 0 || start > end || end > s.tree.Size() {
		return "", ErrRangeInvalid
	}
	return s.tree.GetRange(start, end-start)
}

// Len returns the number of runes in the snapshot.
func (s *Snapshot) Len() int {
	return s.tree.Size()
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.tree.IsEmpty()
}

// RuneAt returns the rune at offset and whether offset was in range.
func (s *Snapshot) RuneAt(offset Offset) (rune, bool) {
	r, err := s.tree.Get(offset)
	return r, err == nil
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return lineCount(s.tree, s.lineEnding)
}

// LineText returns the text of a line without its line ending.
func (s *Snapshot) LineText(line int) string {
	return lineText(s.tree, s.lineEnding, line)
}

// OffsetToPoint converts a rune offset to line/column.
func (s *Snapshot) OffsetToPoint(offset Offset) Point {
	return offsetToPoint(s.tree, s.lineEnding, offset)
}

// PointToOffset converts line/column to a rune offset.
func (s *Snapshot) PointToOffset(p Point) Offset {
	return pointToOffset(s.tree, s.lineEnding, p)
}

// Height returns the height of the snapshot's tree.
func (s *Snapshot) Height() int {
	return s.tree.Height()
}

// DebugString returns the snapshot tree's node dump.
func (s *Snapshot) DebugString() string {
	return s.tree.DebugString()
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}
