package tasks

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// taskDirPattern matches a task folder name and captures the numeric
// suffix. The template folder (TASK-000-template) never matches because
// the pattern is anchored.
var taskDirPattern = regexp.MustCompile(`^TASK-(\d+)$`)

// NextID allocates the next task ID by scanning the current directory
// state: the maximum numeric suffix among existing task folders plus one,
// zero-padded to at least the observed width (minimum 3 digits).
//
// Because allocation reflects current folders only, deleting the
// highest-numbered task makes its number allocatable again. That reuse is
// deliberate: the registry's compatibility contract is the folder scan,
// and the index entry never outlives the folder.
func (fs *FileStore) NextID(projectRoot string) (string, error) {
	entries, err := os.ReadDir(TasksPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return formatTaskID(1, MinIDWidth), nil
		}
		return "", fmt.Errorf("reading tasks directory: %w", err)
	}

	maxVal := 0
	width := MinIDWidth
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := taskDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if v > maxVal {
			maxVal = v
			width = len(m[1])
		}
	}

	return formatTaskID(maxVal+1, width), nil
}

// List returns the IDs of all existing task folders, sorted by numeric
// suffix. The template folder is excluded.
func (fs *FileStore) List(projectRoot string) ([]string, error) {
	entries, err := os.ReadDir(TasksPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() && taskDirPattern.MatchString(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return taskNumber(ids[i]) < taskNumber(ids[j])
	})
	return ids, nil
}

func taskNumber(id string) int {
	m := taskDirPattern.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func formatTaskID(value, width int) string {
	if width < MinIDWidth {
		width = MinIDWidth
	}
	return fmt.Sprintf("%s%0*d", IDPrefix, width, value)
}
