package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func indexFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "backlog.yaml")
}

func TestUpsertBlock_CreatesFileWithHeader(t *testing.T) {
	path := indexFile(t)

	err := UpsertBlock(path, "TASK-001", "  - id: TASK-001\n    status: todo\n")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "tasks:\n  - id: TASK-001\n    status: todo\n"
	if string(data) != want {
		t.Errorf("index = %q, want %q", data, want)
	}
}

func TestUpsertBlock_AppendsNewBlock(t *testing.T) {
	path := indexFile(t)

	if err := UpsertBlock(path, "TASK-001", "  - id: TASK-001\n    status: todo\n"); err != nil {
		t.Fatalf("upsert 1: %v", err)
	}
	if err := UpsertBlock(path, "TASK-002", "  - id: TASK-002\n    status: doing\n"); err != nil {
		t.Fatalf("upsert 2: %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "tasks:\n" +
		"  - id: TASK-001\n    status: todo\n" +
		"  - id: TASK-002\n    status: doing\n"
	if string(data) != want {
		t.Errorf("index = %q, want %q", data, want)
	}
}

func TestUpsertBlock_ReplacesInPlace(t *testing.T) {
	path := indexFile(t)

	for _, id := range []string{"TASK-001", "TASK-002", "TASK-003"} {
		if err := UpsertBlock(path, id, "  - id: "+id+"\n    status: todo\n"); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	// Replace the middle block; order and neighbors must be untouched.
	if err := UpsertBlock(path, "TASK-002", "  - id: TASK-002\n    status: done\n    note: shipped\n"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "tasks:\n" +
		"  - id: TASK-001\n    status: todo\n" +
		"  - id: TASK-002\n    status: done\n    note: shipped\n" +
		"  - id: TASK-003\n    status: todo\n"
	if string(data) != want {
		t.Errorf("index = %q, want %q", data, want)
	}
}

func TestUpsertBlock_Idempotent(t *testing.T) {
	path := indexFile(t)
	block := "  - id: TASK-001\n    status: todo\n"

	for i := 0; i < 3; i++ {
		if err := UpsertBlock(path, "TASK-001", block); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	data, _ := os.ReadFile(path)
	if got := strings.Count(string(data), "TASK-001"); got != 1 {
		t.Errorf("TASK-001 appears %d times, want 1:\n%s", got, data)
	}
}

func TestUpsertBlock_PassesBlockThroughVerbatim(t *testing.T) {
	path := indexFile(t)

	// Odd indentation and extra fields are the caller's business.
	block := "  - id: TASK-007\n        title: \"weird:   spacing\"\n    status: todo\n"
	if err := UpsertBlock(path, "TASK-007", block); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "        title: \"weird:   spacing\"") {
		t.Errorf("block must pass through byte-for-byte, got:\n%s", data)
	}
}

func TestRemoveBlock_MiddleBlock(t *testing.T) {
	path := indexFile(t)

	for _, id := range []string{"TASK-001", "TASK-002", "TASK-003"} {
		if err := UpsertBlock(path, id, "  - id: "+id+"\n    status: todo\n"); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	if err := RemoveBlock(path, "TASK-002"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	data, _ := os.ReadFile(path)
	want := "tasks:\n" +
		"  - id: TASK-001\n    status: todo\n" +
		"  - id: TASK-003\n    status: todo\n"
	if string(data) != want {
		t.Errorf("index = %q, want %q", data, want)
	}
}

func TestRemoveBlock_LastBlockKeepsHeader(t *testing.T) {
	path := indexFile(t)

	if err := UpsertBlock(path, "TASK-001", "  - id: TASK-001\n    status: todo\n"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := RemoveBlock(path, "TASK-001"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "tasks:\n" {
		t.Errorf("index = %q, want just the header", data)
	}
}

func TestRemoveBlock_MissingFileOrBlockIsNoOp(t *testing.T) {
	path := indexFile(t)

	if err := RemoveBlock(path, "TASK-001"); err != nil {
		t.Errorf("missing file: %v", err)
	}

	if err := UpsertBlock(path, "TASK-001", "  - id: TASK-001\n"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	before, _ := os.ReadFile(path)
	if err := RemoveBlock(path, "TASK-099"); err != nil {
		t.Errorf("missing block: %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Errorf("missing-block remove must not change the file:\nbefore %q\nafter  %q", before, after)
	}
}
