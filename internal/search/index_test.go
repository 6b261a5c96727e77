package search

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/meridianhq/meridian/internal/memlog"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func entry(id, summary string, tags ...string) memlog.Entry {
	if tags == nil {
		tags = []string{}
	}
	return memlog.Entry{
		ID:        id,
		Timestamp: "2026-08-31T12:00:00Z",
		Summary:   summary,
		Tags:      tags,
		Links:     []string{},
	}
}

func TestAddAndSearch(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Add(entry("mem-0001", "switched the cache to write-through", "cache")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ix.Add(entry("mem-0002", "fixed the login redirect loop", "auth")); err != nil {
		t.Fatalf("add: %v", err)
	}

	results, err := ix.Search("login redirect", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ID != "mem-0002" {
		t.Errorf("result ID = %q, want mem-0002", results[0].ID)
	}
	if want := []string{"auth"}; !reflect.DeepEqual(results[0].Tags, want) {
		t.Errorf("result tags = %v, want %v", results[0].Tags, want)
	}
}

func TestAdd_ReAddingSameIDIsNoOp(t *testing.T) {
	ix := openTestIndex(t)

	e := entry("mem-0001", "original summary")
	if err := ix.Add(e); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ix.Add(e); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	n, err := ix.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestSearch_MatchesTags(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Add(entry("mem-0001", "quarterly planning notes", "roadmap")); err != nil {
		t.Fatalf("add: %v", err)
	}

	results, err := ix.Search("roadmap", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1 (tag match)", len(results))
	}
}

func TestSearch_SpecialCharactersDoNotError(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Add(entry("mem-0001", "parser handles quoted strings")); err != nil {
		t.Fatalf("add: %v", err)
	}

	// FTS5 operators and stray quotes must be neutralized, not crash.
	for _, q := range []string{`"parser`, `parser AND NOT`, `foo-bar (baz)`} {
		if _, err := ix.Search(q, 5); err != nil {
			t.Errorf("search %q: %v", q, err)
		}
	}
}

func TestReindex_ReplacesContents(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Add(entry("mem-0001", "stale entry about the old scheduler")); err != nil {
		t.Fatalf("add: %v", err)
	}

	count, err := ix.Reindex([]memlog.Entry{
		entry("mem-0001", "rewrote the scheduler around a worker pool"),
		entry("mem-0002", "added backpressure to the ingest path"),
	})
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if count != 2 {
		t.Errorf("reindexed %d, want 2", count)
	}

	n, err := ix.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	// The old text must be gone from the FTS table.
	results, err := ix.Search("stale", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("stale text still searchable after reindex: %v", results)
	}

	results, err = ix.Search("backpressure", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("new text not searchable after reindex, got %d results", len(results))
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")

	ix, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := ix.Add(entry("mem-0001", "persisted across handles")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ix.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ix2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ix2.Close()

	n, err := ix2.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count after reopen = %d, want 1", n)
	}
}
