package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// The backlog index is patched textually, not parsed structurally: each
// list item is a block starting at an "id:"-bearing line and running to
// the next such line or end of file. Caller-supplied block text passes
// through byte-for-byte — the patcher only locates the id marker lines
// and never validates block internals.

// indexHeader is written when the index file is created from scratch.
const indexHeader = "tasks:"

// indexIDLine matches a block-start line: an id field at any indentation,
// optionally behind a YAML list dash. Captures the ID value.
var indexIDLine = regexp.MustCompile(`^\s*(?:-\s+)?id:\s*(\S+)\s*$`)

// UpsertBlock adds or replaces the index block for taskID. If the file
// doesn't exist it is created with the top-level list key and this single
// block. An existing block is replaced in place; otherwise the block is
// appended after trimming trailing blank lines so the join is exactly one
// newline.
func UpsertBlock(path, taskID, block string) error {
	blockLines := splitBlock(block)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading index: %w", err)
		}
		lines := append([]string{indexHeader}, blockLines...)
		return writeIndex(path, lines)
	}

	lines := splitLines(string(data))
	start, end, found := findBlock(lines, taskID)
	if found {
		replaced := make([]string, 0, len(lines)-(end-start)+len(blockLines))
		replaced = append(replaced, lines[:start]...)
		replaced = append(replaced, blockLines...)
		replaced = append(replaced, lines[end:]...)
		return writeIndex(path, replaced)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	lines = append(lines, blockLines...)
	return writeIndex(path, lines)
}

// RemoveBlock deletes the index block for taskID. A missing file or
// missing block is a no-op, never an error.
func RemoveBlock(path, taskID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading index: %w", err)
	}

	lines := splitLines(string(data))
	start, end, found := findBlock(lines, taskID)
	if !found {
		return nil
	}

	remaining := append([]string{}, lines[:start]...)
	remaining = append(remaining, lines[end:]...)

	// Trim the stray blank line left at the splice boundary, if any.
	if start < len(remaining) && strings.TrimSpace(remaining[start]) == "" {
		remaining = append(remaining[:start], remaining[start+1:]...)
	}
	for len(remaining) > 0 && strings.TrimSpace(remaining[len(remaining)-1]) == "" {
		remaining = remaining[:len(remaining)-1]
	}

	return writeIndex(path, remaining)
}

// findBlock locates the half-open line span [start, end) of taskID's
// block: from its id line up to the next id line or end of file.
func findBlock(lines []string, taskID string) (start, end int, found bool) {
	start = -1
	for i, line := range lines {
		m := indexIDLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if start >= 0 {
			return start, i, true
		}
		if m[1] == taskID {
			start = i
		}
	}
	if start >= 0 {
		return start, len(lines), true
	}
	return 0, 0, false
}

func splitBlock(block string) []string {
	return strings.Split(strings.TrimRight(block, "\n"), "\n")
}

func splitLines(content string) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func writeIndex(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}
