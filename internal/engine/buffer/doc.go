// Package buffer provides a thread-safe text buffer stored in an edittree.
// Positions are rune offsets: offset n addresses the n-th character.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - O(log n) single-character edits and O(log n + k) insertion of k
//     characters through split, bulk build and concatenation
//   - Line ending normalization
//   - Line/column coordinate conversion
//   - Read-only snapshots for concurrent access
//   - Revision tracking and a stable per-buffer ID
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // ...
//	}()
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. A Snapshot owns a
// private copy of the tree and never changes.
package buffer
