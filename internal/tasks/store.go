package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store using the local filesystem.
//
// Create/update/delete touch multiple files (folder contents plus the
// index) without a shared transaction; a crash between the two leaves
// them inconsistent. That window is accepted: create writes the folder
// before the index entry, delete removes the index entry before the
// folder, so the index never points at a folder that was never there.
type FileStore struct{}

// NewFileStore creates a filesystem-backed task store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Create scaffolds a new task from the template folder: allocates the
// next ID, copies every template file substituting the placeholder in
// filenames, overwrites whichever documents were supplied, then adds the
// index block if one was supplied.
func (fs *FileStore) Create(projectRoot string, p CreateParams) (*Result, error) {
	templateDir := TemplatePath(projectRoot)
	if _, err := os.Stat(templateDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: template folder %s", ErrNotFound, templateDir)
		}
		return nil, fmt.Errorf("checking template folder: %w", err)
	}

	taskID, err := fs.NextID(projectRoot)
	if err != nil {
		return nil, err
	}

	taskDir := TaskPath(projectRoot, taskID)
	if _, err := os.Stat(taskDir); err == nil {
		// The allocator just returned this ID, so an existing folder
		// signals an allocator inconsistency, not a benign race.
		return nil, fmt.Errorf("%w: task folder %s already exists", ErrConflict, taskDir)
	}
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating task folder: %w", err)
	}

	if err := copyTemplate(templateDir, taskDir, taskID); err != nil {
		return nil, err
	}

	result := &Result{ID: taskID}
	if err := writeDocuments(projectRoot, taskID, p.Docs, result); err != nil {
		return nil, err
	}

	if p.IndexBlock != "" {
		if err := UpsertBlock(IndexPath(projectRoot), taskID, p.IndexBlock); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, IndexFile)
	}

	return result, nil
}

// Update selectively overwrites a task's documents and/or its index
// block. The task folder must already exist — update never creates. When
// nothing was supplied the call reports a no-op, not an error.
func (fs *FileStore) Update(projectRoot, taskID string, p UpdateParams) (*Result, error) {
	taskDir := TaskPath(projectRoot, taskID)
	if _, err := os.Stat(taskDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: task folder %s", ErrNotFound, taskDir)
		}
		return nil, fmt.Errorf("checking task folder: %w", err)
	}

	result := &Result{ID: taskID}
	if p.Docs.Empty() && p.IndexBlock == "" {
		result.NoOp = true
		return result, nil
	}

	if err := writeDocuments(projectRoot, taskID, p.Docs, result); err != nil {
		return nil, err
	}

	if p.IndexBlock != "" {
		if err := UpsertBlock(IndexPath(projectRoot), taskID, p.IndexBlock); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, IndexFile)
	}

	return result, nil
}

// Delete removes a task: index entry first (best-effort — a missing entry
// is fine), then the folder recursively. Irreversible.
func (fs *FileStore) Delete(projectRoot, taskID string) error {
	taskDir := TaskPath(projectRoot, taskID)
	if _, err := os.Stat(taskDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: task folder %s", ErrNotFound, taskDir)
		}
		return fmt.Errorf("checking task folder: %w", err)
	}

	if err := RemoveBlock(IndexPath(projectRoot), taskID); err != nil {
		return err
	}

	if err := os.RemoveAll(taskDir); err != nil {
		return fmt.Errorf("removing task folder: %w", err)
	}

	return nil
}

// copyTemplate copies every regular file from the template folder into
// the new task folder, substituting the placeholder ID in filenames.
func copyTemplate(templateDir, taskDir, taskID string) error {
	entries, err := os.ReadDir(templateDir)
	if err != nil {
		return fmt.Errorf("reading template folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ReplaceAll(entry.Name(), TemplateID, taskID)
		dst := filepath.Join(taskDir, name)

		// Guarded even though a fresh copy should never collide: two
		// template filenames could map to the same substituted name.
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%w: rename target %s already exists", ErrConflict, dst)
		}

		data, err := os.ReadFile(filepath.Join(templateDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading template file %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
	}

	return nil
}

// writeDocuments overwrites whichever of the three documents were
// supplied and records their filenames on the result.
func writeDocuments(projectRoot, taskID string, docs Documents, result *Result) error {
	write := func(path string, content *string) error {
		if content == nil {
			return nil
		}
		if err := os.WriteFile(path, []byte(*content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		result.Written = append(result.Written, filepath.Base(path))
		return nil
	}

	if err := write(BriefPath(projectRoot, taskID), docs.Brief); err != nil {
		return err
	}
	if err := write(PlanPath(projectRoot, taskID), docs.Plan); err != nil {
		return err
	}
	return write(ContextPath(projectRoot, taskID), docs.Context)
}
