package treeview

import (
	"strconv"
	"strings"

	"github.com/dshills/edittree/internal/engine/edittree"
)

// Placement is a node's position on the layout grid.
type Placement struct {
	Node *edittree.Node
	X    int // in-order index
	Y    int // depth, 0 for the root
}

// Layout places every node under root. Placements are returned in order,
// so the i-th placement has X == i.
func Layout(root *edittree.Node) []Placement {
	var (
		out   []Placement
		stack []Placement
	)
	n, depth := root, 0
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, Placement{Node: n, Y: depth})
			n = n.Left()
			depth++
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p.X = len(out)
		out = append(out, p)
		n, depth = p.Node.Right(), p.Y+1
	}
	return out
}

// Depth returns the deepest row used by placements, or -1 if there are none.
func Depth(placements []Placement) int {
	d := -1
	for _, p := range placements {
		d = max(d, p.Y)
	}
	return d
}

// Label formats a node the way the debug dump does: element, then
// optionally rank and balance code.
func Label(n *edittree.Node, showRank, showBalance bool) string {
	var sb strings.Builder
	sb.WriteRune(glyph(n.Element()))
	if showRank {
		sb.WriteString(strconv.Itoa(n.Rank()))
	}
	if showBalance {
		sb.WriteString(n.Balance().String())
	}
	return sb.String()
}

// glyph maps elements that would not show up on a terminal to a visible
// stand-in.
func glyph(r rune) rune {
	switch {
	case r == ' ':
		return '·'
	case r == '\n':
		return '↵'
	case r == '\t':
		return '→'
	case r < ' ' || r == 0x7f:
		return '?'
	default:
		return r
	}
}

// isLeftChild reports whether n hangs off its parent's left side.
func isLeftChild(n *edittree.Node) bool {
	p := n.Parent()
	return p != nil && p.Left() == n
}
