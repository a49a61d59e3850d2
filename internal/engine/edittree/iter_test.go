package edittree

import (
	"errors"
	"strings"
	"testing"
)

func collect(t *testing.T, it *Iterator) string {
	t.Helper()
	var sb strings.Builder
	for it.HasNext() {
		r, err := it.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestIterator(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "hello, world", strings.Repeat("xyz", 100)} {
		tr := FromString(s)
		if got := collect(t, tr.Iterator()); got != s {
			t.Errorf("iterated %q, want %q", got, s)
		}
	}
}

func TestIteratorExhausted(t *testing.T) {
	it := FromString("a").Iterator()
	if _, err := it.Next(); err != nil {
		t.Fatal(err)
	}
	if it.HasNext() {
		t.Error("HasNext() = true at end")
	}
	if _, err := it.Next(); !errors.Is(err, ErrNoSuchElement) {
		t.Errorf("Next() error = %v, want ErrNoSuchElement", err)
	}
}

func TestIteratorAt(t *testing.T) {
	tr := FromString("abcdefgh")
	for pos := 0; pos <= tr.Size(); pos++ {
		it, err := tr.IteratorAt(pos)
		if err != nil {
			t.Fatalf("IteratorAt(%d) error = %v", pos, err)
		}
		if got, want := collect(t, it), "abcdefgh"[pos:]; got != want {
			t.Errorf("IteratorAt(%d) yields %q, want %q", pos, got, want)
		}
	}

	for _, pos := range []int{-1, 9} {
		if _, err := tr.IteratorAt(pos); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("IteratorAt(%d) error = %v, want ErrOutOfRange", pos, err)
		}
	}
	if _, err := tr.IteratorAt(9); err == nil || !strings.Contains(err.Error(), "at 9 (size 8)") {
		t.Errorf("IteratorAt(9) error = %v, want position context", err)
	}
}

func TestIteratorConcurrentModification(t *testing.T) {
	tr := FromString("abc")
	it := tr.Iterator()
	if _, err := it.Next(); err != nil {
		t.Fatal(err)
	}

	tr.Append('d')
	if _, err := it.Next(); !errors.Is(err, ErrConcurrentModification) {
		t.Errorf("Next() error = %v, want ErrConcurrentModification", err)
	}
	if err := it.Remove(); !errors.Is(err, ErrConcurrentModification) {
		t.Errorf("Remove() error = %v, want ErrConcurrentModification", err)
	}
}

func TestIteratorRemove(t *testing.T) {
	tr := FromString("an iterator removes vowels")
	it := tr.Iterator()
	for it.HasNext() {
		r, err := it.Next()
		if err != nil {
			t.Fatal(err)
		}
		if strings.ContainsRune("aeiou", r) {
			if err := it.Remove(); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
		}
	}
	assertTree(t, tr, "n trtr rmvs vwls")
}

func TestIteratorRemoveIllegalState(t *testing.T) {
	tr := FromString("abc")
	it := tr.Iterator()
	if err := it.Remove(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Remove() before Next error = %v, want ErrIllegalState", err)
	}

	if _, err := it.Next(); err != nil {
		t.Fatal(err)
	}
	if err := it.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := it.Remove(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("second Remove() error = %v, want ErrIllegalState", err)
	}
	if got := collect(t, it); got != "bc" {
		t.Errorf("remaining = %q, want bc", got)
	}
}
