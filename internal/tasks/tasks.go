// Package tasks handles the numbered task registry.
//
// Each task is a folder named TASK-### under meridian/tasks/, scaffolded
// by copying a template folder and substituting the placeholder ID in
// filenames. A single YAML backlog index (backlog.yaml) lists the same
// tasks; the store keeps folder and index in lockstep via line-oriented
// text patching (see index.go).
//
// This package follows the same design principles as the memory log:
// - SRP: types, allocator, index patcher, and store in separate files
// - DIP: Store is an interface; tools depend on the abstraction
package tasks

import (
	"errors"
	"path/filepath"
)

const (
	// MeridianDir is the subdirectory at the project root where all
	// Meridian state lives.
	MeridianDir = "meridian"
	// TasksDir is the subdirectory under meridian/ where task folders live.
	TasksDir = "tasks"
	// IndexFile is the filename of the backlog index.
	IndexFile = "backlog.yaml"
	// TemplateID is the placeholder identifier inside the template folder.
	// Every occurrence in a copied filename is substituted with the real ID.
	TemplateID = "TASK-000"
	// TemplateDirName is the conventional name of the template folder,
	// a sibling of the task folders.
	TemplateDirName = TemplateID + "-template"
	// IDPrefix is the prefix of every task identifier.
	IDPrefix = "TASK-"
	// MinIDWidth is the minimum zero-padding of the numeric suffix.
	MinIDWidth = 3
)

var (
	// ErrNotFound marks a referenced task or template folder that is absent.
	ErrNotFound = errors.New("tasks: not found")
	// ErrConflict marks a target that already exists where it must not.
	ErrConflict = errors.New("tasks: conflict")
	// ErrValidation marks rejected input.
	ErrValidation = errors.New("tasks: invalid input")
)

// TasksPath returns the absolute path to the meridian/tasks/ directory.
func TasksPath(projectRoot string) string {
	return filepath.Join(projectRoot, MeridianDir, TasksDir)
}

// TaskPath returns the absolute path to a specific task's folder.
func TaskPath(projectRoot, taskID string) string {
	return filepath.Join(TasksPath(projectRoot), taskID)
}

// TemplatePath returns the absolute path to the template folder.
func TemplatePath(projectRoot string) string {
	return filepath.Join(TasksPath(projectRoot), TemplateDirName)
}

// IndexPath returns the absolute path to the backlog index file.
func IndexPath(projectRoot string) string {
	return filepath.Join(TasksPath(projectRoot), IndexFile)
}

// BriefPath returns the path to a task's brief document (<ID>.yaml).
func BriefPath(projectRoot, taskID string) string {
	return filepath.Join(TaskPath(projectRoot, taskID), taskID+".yaml")
}

// PlanPath returns the path to a task's plan document (<ID>-plan.md).
func PlanPath(projectRoot, taskID string) string {
	return filepath.Join(TaskPath(projectRoot, taskID), taskID+"-plan.md")
}

// ContextPath returns the path to a task's context document (<ID>-context.md).
func ContextPath(projectRoot, taskID string) string {
	return filepath.Join(TaskPath(projectRoot, taskID), taskID+"-context.md")
}

// Documents holds optional replacement content for a task's three
// documents. A nil field means "leave that document alone".
type Documents struct {
	Brief   *string
	Plan    *string
	Context *string
}

// Empty reports whether no document content was supplied.
func (d Documents) Empty() bool {
	return d.Brief == nil && d.Plan == nil && d.Context == nil
}

// CreateParams holds the input for scaffolding a new task.
type CreateParams struct {
	Docs Documents
	// IndexBlock is the caller-supplied backlog block (pre-formatted YAML
	// list item carrying at least "id: <TASK-###>"). Empty means no index
	// entry is added.
	IndexBlock string
}

// UpdateParams holds the input for updating an existing task.
type UpdateParams struct {
	Docs       Documents
	IndexBlock string
}

// Result describes a completed create or update: the affected task ID and
// the names of the documents that were written.
type Result struct {
	ID      string
	Written []string
	// NoOp is true when an update supplied nothing to change.
	NoOp bool
}

// Store defines the persistence interface for the task registry.
type Store interface {
	Create(projectRoot string, p CreateParams) (*Result, error)
	Update(projectRoot, taskID string, p UpdateParams) (*Result, error)
	Delete(projectRoot, taskID string) error
	List(projectRoot string) ([]string, error)
	NextID(projectRoot string) (string, error)
}
