package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// seedTemplate creates the template folder with the three default
// placeholder documents.
func seedTemplate(t *testing.T, projectRoot string) {
	t.Helper()
	dir := TemplatePath(projectRoot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("setup: mkdir template: %v", err)
	}
	files := map[string]string{
		"TASK-000.yaml":       "id: TASK-000\ntitle: \"\"\n",
		"TASK-000-plan.md":    "# TASK-000 — Plan\n",
		"TASK-000-context.md": "# TASK-000 — Context\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("setup: write %s: %v", name, err)
		}
	}
}

func blockFor(taskID string) string {
	return fmt.Sprintf("  - id: %s\n    title: test task\n    status: todo\n", taskID)
}

func TestCreate_ScaffoldsFromTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	result, err := store.Create(tmpDir, CreateParams{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.ID != "TASK-001" {
		t.Errorf("ID = %q, want TASK-001", result.ID)
	}

	// All three documents must exist with the placeholder substituted
	// in the filename.
	for _, path := range []string{
		BriefPath(tmpDir, "TASK-001"),
		PlanPath(tmpDir, "TASK-001"),
		ContextPath(tmpDir, "TASK-001"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected scaffolded file %s: %v", path, err)
		}
	}
}

func TestCreate_SequentialIDsAndIndex(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	for i := 1; i <= 3; i++ {
		want := fmt.Sprintf("TASK-%03d", i)
		result, err := store.Create(tmpDir, CreateParams{IndexBlock: blockFor(want)})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if result.ID != want {
			t.Errorf("create %d: ID = %q, want %q", i, result.ID, want)
		}
	}

	data, err := os.ReadFile(IndexPath(tmpDir))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	index := string(data)
	if !strings.HasPrefix(index, "tasks:\n") {
		t.Errorf("index should start with the tasks: header, got:\n%s", index)
	}
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("TASK-%03d", i)
		if !strings.Contains(index, "id: "+id) {
			t.Errorf("index missing entry for %s:\n%s", id, index)
		}
	}
}

func TestCreate_SuppliedDocsReplaceTemplateDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	brief := "id: TASK-001\ntitle: wire the parser\n"
	result, err := store.Create(tmpDir, CreateParams{Docs: Documents{Brief: &brief}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if want := []string{"TASK-001.yaml"}; !reflect.DeepEqual(result.Written, want) {
		t.Errorf("Written = %v, want %v", result.Written, want)
	}

	data, err := os.ReadFile(BriefPath(tmpDir, "TASK-001"))
	if err != nil {
		t.Fatalf("read brief: %v", err)
	}
	if string(data) != brief {
		t.Errorf("brief = %q, want %q", data, brief)
	}

	// The plan kept the template default.
	plan, err := os.ReadFile(PlanPath(tmpDir, "TASK-001"))
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if !strings.Contains(string(plan), "Plan") {
		t.Errorf("plan should keep template content, got: %s", plan)
	}
}

func TestCreate_MissingTemplateFolder(t *testing.T) {
	store := NewFileStore()
	_, err := store.Create(t.TempDir(), CreateParams{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreate_ReusesNumberAfterDeletingHighest(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	for i := 0; i < 2; i++ {
		if _, err := store.Create(tmpDir, CreateParams{}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.Delete(tmpDir, "TASK-002"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// TASK-002 was the highest, so its number is allocatable again.
	result, err := store.Create(tmpDir, CreateParams{})
	if err != nil {
		t.Fatalf("create after delete: %v", err)
	}
	if result.ID != "TASK-002" {
		t.Errorf("ID = %q, want TASK-002", result.ID)
	}
}

func TestUpdate_SelectiveWrite(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	if _, err := store.Create(tmpDir, CreateParams{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	plan := "# TASK-001 — Plan\n\n1. do the thing\n"
	result, err := store.Update(tmpDir, "TASK-001", UpdateParams{Docs: Documents{Plan: &plan}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if want := []string{"TASK-001-plan.md"}; !reflect.DeepEqual(result.Written, want) {
		t.Errorf("Written = %v, want %v", result.Written, want)
	}

	data, err := os.ReadFile(PlanPath(tmpDir, "TASK-001"))
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if string(data) != plan {
		t.Errorf("plan = %q, want %q", data, plan)
	}
}

func TestUpdate_NothingSuppliedIsNoOp(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	if _, err := store.Create(tmpDir, CreateParams{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := store.Update(tmpDir, "TASK-001", UpdateParams{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !result.NoOp {
		t.Error("expected NoOp result")
	}
	if len(result.Written) != 0 {
		t.Errorf("Written = %v, want empty", result.Written)
	}
}

func TestUpdate_UnknownTask(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	_, err := store.Update(tmpDir, "TASK-099", UpdateParams{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete_RemovesFolderAndIndexEntry(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	if _, err := store.Create(tmpDir, CreateParams{IndexBlock: blockFor("TASK-001")}); err != nil {
		t.Fatalf("create 1: %v", err)
	}
	if _, err := store.Create(tmpDir, CreateParams{IndexBlock: blockFor("TASK-002")}); err != nil {
		t.Fatalf("create 2: %v", err)
	}

	if err := store.Delete(tmpDir, "TASK-001"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := os.Stat(TaskPath(tmpDir, "TASK-001")); !os.IsNotExist(err) {
		t.Error("task folder should be gone")
	}
	data, err := os.ReadFile(IndexPath(tmpDir))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if strings.Contains(string(data), "TASK-001") {
		t.Errorf("index should not mention TASK-001:\n%s", data)
	}
	if !strings.Contains(string(data), "TASK-002") {
		t.Errorf("index should still list TASK-002:\n%s", data)
	}
}

func TestDelete_UnknownTask(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	err := store.Delete(tmpDir, "TASK-042")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList_SortedNumericallyExcludingTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	seedTemplate(t, tmpDir)
	store := NewFileStore()

	// Create out of order on disk.
	for _, id := range []string{"TASK-010", "TASK-002"} {
		if err := os.MkdirAll(TaskPath(tmpDir, id), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", id, err)
		}
	}

	ids, err := store.List(tmpDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if want := []string{"TASK-002", "TASK-010"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("List = %v, want %v", ids, want)
	}
}

func TestNextID_PreservesObservedWidth(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewFileStore()

	if err := os.MkdirAll(TaskPath(tmpDir, "TASK-0099"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	id, err := store.NextID(tmpDir)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != "TASK-0100" {
		t.Errorf("NextID = %q, want TASK-0100", id)
	}
}
