package edittree

import "testing"

func TestRotationCount(t *testing.T) {
	tests := []struct {
		rot   Rotation
		count int
		name  string
	}{
		{RotationNone, 0, "none"},
		{RotationSingleLeft, 1, "single-left"},
		{RotationSingleRight, 1, "single-right"},
		{RotationDoubleLeft, 2, "double-left"},
		{RotationDoubleRight, 2, "double-right"},
	}
	for _, tt := range tests {
		if got := tt.rot.Count(); got != tt.count {
			t.Errorf("%v.Count() = %d, want %d", tt.rot, got, tt.count)
		}
		if got := tt.rot.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestBalanceString(t *testing.T) {
	if BalanceSame.String() != "=" || BalanceLeft.String() != "/" || BalanceRight.String() != `\` {
		t.Errorf("balance symbols = %s %s %s", BalanceSame, BalanceLeft, BalanceRight)
	}
}

func TestRotateRanks(t *testing.T) {
	// c(b(a), e(d)) rotated left becomes e(c(b(a), d)).
	tr := FromString("abcde")
	n := tr.root
	if n.elem != 'c' {
		t.Fatalf("root = %q, want c", n.elem)
	}

	root := rotateLeft(n)
	if root.elem != 'e' {
		t.Fatalf("rotateLeft root = %q", root.elem)
	}
	if root.rank != sizeOf(root.left) {
		t.Errorf("new root rank = %d, left size %d", root.rank, sizeOf(root.left))
	}
	if root.left.rank != sizeOf(root.left.left) {
		t.Errorf("old root rank = %d, left size %d", root.left.rank, sizeOf(root.left.left))
	}
	if root.left.parent != root {
		t.Error("old root parent not updated")
	}

	back := rotateRight(root)
	if back != n {
		t.Fatalf("rotateRight did not restore the root")
	}
	if n.rank != 2 || n.right.rank != 1 {
		t.Errorf("restored ranks = %d, %d, want 2, 1", n.rank, n.right.rank)
	}
}

func TestDeleteBalancedSibling(t *testing.T) {
	tr := FromString("")
	for _, r := range "abcde" {
		tr.Append(r)
	}
	if got := tr.DebugString(); got != `[b1\, a0=, d1=, c0=, e0=]` {
		t.Fatalf("DebugString() = %q", got)
	}
	before := tr.Rotations()

	// Removing a leaves b two short on the left while d is balanced: one
	// single rotation, the height stays 2 and b and d tip toward each other.
	r, err := tr.Delete(0)
	if err != nil {
		t.Fatal(err)
	}
	if r != 'a' {
		t.Errorf("Delete(0) = %q, want a", r)
	}
	assertTree(t, tr, "bcde")
	if got := tr.DebugString(); got != `[d2/, b0\, c0=, e0=]` {
		t.Errorf("DebugString() = %q", got)
	}
	if tr.Height() != 2 {
		t.Errorf("Height() = %d, want 2", tr.Height())
	}
	if got := tr.Rotations() - before; got != 1 {
		t.Errorf("rotations = %d, want 1", got)
	}
}

func TestDeleteScenario(t *testing.T) {
	tr := FromString("abcde")
	r, err := tr.Delete(2)
	if err != nil {
		t.Fatal(err)
	}
	if r != 'c' {
		t.Errorf("Delete(2) = %q, want c", r)
	}
	assertTree(t, tr, "abde")
}

func TestDeleteEveryPosition(t *testing.T) {
	const s = "abcdefghijklmnopqrstu"
	for pos := range len(s) {
		tr := FromString(s)
		r, err := tr.Delete(pos)
		if err != nil {
			t.Fatalf("Delete(%d) error = %v", pos, err)
		}
		if r != rune(s[pos]) {
			t.Errorf("Delete(%d) = %q, want %q", pos, r, s[pos])
		}
		assertTree(t, tr, s[:pos]+s[pos+1:])
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	tr := FromString("ab")
	for _, pos := range []int{-1, 2} {
		if _, err := tr.Delete(pos); err == nil {
			t.Errorf("Delete(%d) succeeded", pos)
		}
	}
	if _, err := New().Delete(0); err == nil {
		t.Error("Delete on empty tree succeeded")
	}
	assertTree(t, tr, "ab")
}

func TestDeleteUntilEmpty(t *testing.T) {
	tr := FromString("the quick brown fox jumps")
	for !tr.IsEmpty() {
		if _, err := tr.Delete(tr.Size() / 2); err != nil {
			t.Fatal(err)
		}
		if err := tr.Check(); err != nil {
			t.Fatal(err)
		}
	}
	if tr.Height() != -1 {
		t.Errorf("Height() = %d, want -1", tr.Height())
	}
}
