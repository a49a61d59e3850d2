package buffer

import "fmt"

// Edit replaces a range of the buffer with new text.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset Offset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end Offset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// EditResult describes an applied edit.
type EditResult struct {
	OldRange Range  // range that was replaced
	NewRange Range  // range now holding the new text
	OldText  string // text that was replaced
	Delta    int    // change in buffer length, in runes
}
