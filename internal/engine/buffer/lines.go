package buffer

import "github.com/dshills/edittree/internal/engine/edittree"

// Line helpers shared by Buffer and Snapshot. They scan the tree in order,
// so each costs O(n) in the worst case.

func lineCount(t *edittree.Tree, le LineEnding) int {
	br := le.lineBreak()
	n := 1
	it := t.Iterator()
	for it.HasNext() {
		if r, _ := it.Next(); r == br {
			n++
		}
	}
	return n
}

// lineBounds returns the offsets of the first rune of line and of its line
// ending (or the end of text). ok is false when the line does not exist.
func lineBounds(t *edittree.Tree, le LineEnding, line int) (start, end Offset, ok bool) {
	if line < 0 {
		return 0, 0, false
	}
	br := le.lineBreak()
	cur, pos := 0, 0
	var prev rune
	it := t.Iterator()
	for it.HasNext() {
		r, _ := it.Next()
		if r == br {
			if cur == line {
				end = pos
				if le == LineEndingCRLF && end > start && prev == '\r' {
					end--
				}
				return start, end, true
			}
			cur++
			start = pos + 1
		}
		prev = r
		pos++
	}
	if cur == line {
		return start, pos, true
	}
	return 0, 0, false
}

func lineText(t *edittree.Tree, le LineEnding, line int) string {
	start, end, ok := lineBounds(t, le, line)
	if !ok {
		return ""
	}
	s, _ := t.GetRange(start, end-start)
	return s
}

// offsetToPoint clamps offset into [0, Size] and converts it.
func offsetToPoint(t *edittree.Tree, le LineEnding, offset Offset) Point {
	offset = min(max(offset, 0), t.Size())
	br := le.lineBreak()
	var p Point
	it := t.Iterator()
	for i := 0; i < offset; i++ {
		r, _ := it.Next()
		if r == br {
			p.Line++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// pointToOffset converts p, clamping the column to the line's length and a
// line past the end to the end of text.
func pointToOffset(t *edittree.Tree, le LineEnding, p Point) Offset {
	start, end, ok := lineBounds(t, le, p.Line)
	if !ok {
		if p.Line < 0 {
			return 0
		}
		return t.Size()
	}
	return start + min(max(p.Column, 0), end-start)
}
