// Package treeview renders the shape of an edit tree on a terminal.
//
// Every node is placed on a grid: its column is its in-order index, so the
// text reads left to right along the bottom of the tree, and its row is its
// depth. Each node is drawn as its element followed by its rank and balance
// code, matching the edit tree's debug notation:
//
//	    c2/
//	   /   \
//	b1/     d0=
//	/
//	a0=
//
// Usage:
//
//	screen, _ := tcell.NewScreen()
//	screen.Init()
//	defer screen.Fini()
//	v := treeview.New(screen, tree)
//	err := v.Run(ctx)
package treeview
