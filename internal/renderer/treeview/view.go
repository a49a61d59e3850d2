package treeview

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/edittree/internal/engine/edittree"
)

// Option configures a View.
type Option func(*View)

// WithRank toggles the rank next to each element.
func WithRank(show bool) Option {
	return func(v *View) { v.showRank = show }
}

// WithBalance toggles the balance code next to each element.
func WithBalance(show bool) Option {
	return func(v *View) { v.showBalance = show }
}

// View draws an edit tree on a tcell screen and scrolls over it.
//
// The tree is read during Draw; callers must not modify it concurrently.
type View struct {
	screen tcell.Screen
	tree   *edittree.Tree

	placements []Placement
	colWidth   int
	rows       int

	offsetX, offsetY int

	showRank    bool
	showBalance bool

	nodeStyle   tcell.Style
	tippedStyle tcell.Style
	edgeStyle   tcell.Style
	statusStyle tcell.Style
}

// New creates a view of t on screen. The screen must already be initialized.
func New(screen tcell.Screen, t *edittree.Tree, opts ...Option) *View {
	v := &View{
		screen:      screen,
		tree:        t,
		showRank:    true,
		showBalance: true,
		nodeStyle:   tcell.StyleDefault.Bold(true),
		tippedStyle: tcell.StyleDefault.Bold(true).Foreground(tcell.ColorYellow),
		edgeStyle:   tcell.StyleDefault.Dim(true),
		statusStyle: tcell.StyleDefault.Reverse(true),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.Refresh()
	return v
}

// Refresh recomputes the layout after the tree changed.
func (v *View) Refresh() {
	v.placements = Layout(v.tree.Root())
	v.colWidth = 1
	for _, p := range v.placements {
		v.colWidth = max(v.colWidth, utf8.RuneCountInString(v.label(p.Node))+1)
	}
	v.rows = 2*Depth(v.placements) + 1
	v.Scroll(0, 0)
}

// Offset returns the current scroll position in screen cells.
func (v *View) Offset() (x, y int) {
	return v.offsetX, v.offsetY
}

// Scroll moves the viewport by dx columns and dy rows, clamped to the
// extent of the tree.
func (v *View) Scroll(dx, dy int) {
	w, h := v.screen.Size()
	maxX := max(0, len(v.placements)*v.colWidth-w)
	maxY := max(0, v.rows-(h-1))
	v.offsetX = min(max(v.offsetX+dx, 0), maxX)
	v.offsetY = min(max(v.offsetY+dy, 0), maxY)
}

// Draw renders the visible part of the tree and the status line.
func (v *View) Draw() {
	v.screen.Clear()
	_, h := v.screen.Size()

	for _, p := range v.placements {
		x := p.X*v.colWidth - v.offsetX
		y := 2*p.Y - v.offsetY

		style := v.nodeStyle
		if p.Node.Balance() != edittree.BalanceSame {
			style = v.tippedStyle
		}
		if y >= 0 && y < h-1 {
			v.drawText(x, y, v.label(p.Node), style)
		}

		// Edges sit on the row above the child, leaning toward the parent.
		if p.Node.Parent() == nil || y-1 < 0 || y-1 >= h-1 {
			continue
		}
		if isLeftChild(p.Node) {
			v.drawText(x+v.colWidth-1, y-1, "/", v.edgeStyle)
		} else {
			v.drawText(x, y-1, `\`, v.edgeStyle)
		}
	}

	status := fmt.Sprintf(" size %d  height %d  rotations %d  q quit",
		v.tree.Size(), v.tree.Height(), v.tree.Rotations())
	v.drawStatus(h-1, status)
	v.screen.Show()
}

// HandleEvent applies ev to the view and redraws it. It reports whether the
// view should close.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			v.Scroll(-v.colWidth, 0)
		case tcell.KeyRight:
			v.Scroll(v.colWidth, 0)
		case tcell.KeyUp:
			v.Scroll(0, -1)
		case tcell.KeyDown:
			v.Scroll(0, 1)
		case tcell.KeyHome:
			v.Scroll(-v.offsetX, -v.offsetY)
		case tcell.KeyRune:
			switch e.Rune() {
			case 'q':
				return true
			case 'h':
				v.Scroll(-v.colWidth, 0)
			case 'l':
				v.Scroll(v.colWidth, 0)
			case 'k':
				v.Scroll(0, -1)
			case 'j':
				v.Scroll(0, 1)
			}
		}

	case *tcell.EventResize:
		v.screen.Sync()
		v.Scroll(0, 0)

	case *tcell.EventInterrupt:
		return true
	}
	v.Draw()
	return false
}

// Run draws the view and processes screen events until the user quits or
// ctx is done.
func (v *View) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil || v.HandleEvent(ev) {
			return ctx.Err()
		}
	}
}

func (v *View) label(n *edittree.Node) string {
	return Label(n, v.showRank, v.showBalance)
}

func (v *View) drawText(x, y int, s string, style tcell.Style) {
	w, _ := v.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		if x >= 0 {
			v.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func (v *View) drawStatus(y int, s string) {
	w, _ := v.screen.Size()
	for x := range w {
		v.screen.SetContent(x, y, ' ', nil, v.statusStyle)
	}
	v.drawText(0, y, s, v.statusStyle)
}
