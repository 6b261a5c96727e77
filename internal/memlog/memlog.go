// Package memlog implements the append-only memory log.
//
// The log is a single JSON Lines file under meridian/: one entry per line,
// each with a sequential zero-padded identifier (mem-0001, mem-0002, ...).
// Entries are never rewritten or deleted — the only mutation is appending
// one complete line. ID allocation tail-parses the last line when possible
// and falls back to a full scan when the tail is corrupted.
package memlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MeridianDir is the subdirectory at the project root where all
	// Meridian state lives.
	MeridianDir = "meridian"
	// LogFile is the filename of the memory log.
	LogFile = "memory.jsonl"
	// IDPrefix is the prefix of every memory entry identifier.
	IDPrefix = "mem-"
	// MinIDWidth is the minimum zero-padding of the numeric suffix.
	MinIDWidth = 4
)

// ErrValidation marks rejected input (empty summary, bad tokens).
var ErrValidation = errors.New("memlog: invalid input")

// idPattern matches a well-formed memory entry ID and captures the
// zero-padded numeric suffix.
var idPattern = regexp.MustCompile(`^mem-(\d{4,})$`)

// Entry is one record in the memory log. Field order matters: it is the
// serialization order on disk.
type Entry struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
	Links     []string `json:"links"`
}

// Skipped records one log line that could not be parsed during a scan.
// Malformed lines are never fatal, but they are surfaced so callers can
// report them instead of silently ignoring corruption.
type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// AppendParams holds the input for appending a new entry.
// Tag and link tokens may each contain multiple comma- or
// whitespace-separated sub-tokens; they are flattened and deduplicated.
type AppendParams struct {
	Summary string
	Tags    []string
	Links   []string
}

// Store defines the persistence interface for the memory log.
// Abstracted for testability (DIP).
type Store interface {
	Append(projectRoot string, p AppendParams) (*Entry, error)
	Load(projectRoot string) ([]Entry, []Skipped, error)
	NextID(projectRoot string) (string, error)
}

// FileStore implements Store on the local filesystem.
type FileStore struct{}

// NewFileStore creates a filesystem-backed memory log store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// LogPath returns the absolute path to the memory log file.
func LogPath(projectRoot string) string {
	return filepath.Join(projectRoot, MeridianDir, LogFile)
}

// Append validates, allocates the next ID, and appends one entry as a
// single newline-terminated JSON line. The write is a single call on a
// file opened O_APPEND — the line is either fully written or not at all.
func (fs *FileStore) Append(projectRoot string, p AppendParams) (*Entry, error) {
	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: summary must not be empty", ErrValidation)
	}

	id, err := fs.NextID(projectRoot)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        id,
		Timestamp: Now(),
		Summary:   summary,
		Tags:      NormalizeTokens(p.Tags),
		Links:     NormalizeTokens(p.Links),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshaling memory entry: %w", err)
	}

	path := LogPath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating meridian directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening memory log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("appending memory entry: %w", err)
	}

	return entry, nil
}

// Load reads every entry from the log, oldest first. Lines that fail to
// parse are skipped and reported, never fatal. A missing log file is an
// empty log.
func (fs *FileStore) Load(projectRoot string) ([]Entry, []Skipped, error) {
	f, err := os.Open(LogPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("opening memory log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	var skipped []Skipped

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			skipped = append(skipped, Skipped{Line: lineNo, Reason: fmt.Sprintf("malformed JSON: %v", err)})
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading memory log: %w", err)
	}

	return entries, skipped, nil
}

// NextID allocates the next memory entry ID.
//
// Fast path: parse only the last non-blank line and add 1 to its suffix —
// the log only ever grows by appends, so the tail holds the max. If the
// tail is absent, unparsable, or its ID doesn't match the expected format,
// fall back to a full scan taking the maximum suffix across all lines.
func (fs *FileStore) NextID(projectRoot string) (string, error) {
	data, err := os.ReadFile(LogPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return formatID(1, MinIDWidth), nil
		}
		return "", fmt.Errorf("reading memory log: %w", err)
	}

	lines := strings.Split(string(data), "\n")

	if id, ok := tailParse(lines); ok {
		return id, nil
	}

	// Fallback: full scan. Malformed lines are skipped silently here —
	// allocation must never fail because of old corruption.
	maxVal := 0
	width := MinIDWidth
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		m := idPattern.FindStringSubmatch(e.ID)
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

	return formatID(maxVal+1, width), nil
}

// tailParse attempts the constant-time allocation path: parse the last
// non-blank line and increment its ID suffix.
func tailParse(lines []string) (string, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return "", false
		}
		m := idPattern.FindStringSubmatch(e.ID)
		if m == nil {
			return "", false
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		return formatID(v+1, len(m[1])), true
	}
	return formatID(1, MinIDWidth), true
}

// formatID renders a numeric suffix zero-padded to at least width digits,
// never fewer than MinIDWidth.
func formatID(value, width int) string {
	if width < MinIDWidth {
		width = MinIDWidth
	}
	return fmt.Sprintf("%s%0*d", IDPrefix, width, value)
}

// tokenSplit separates comma- or whitespace-delimited sub-tokens.
var tokenSplit = regexp.MustCompile(`[,\s]+`)

// NormalizeTokens flattens raw tag/link tokens: each input may carry
// multiple comma- or whitespace-separated sub-tokens. The result is
// trimmed, empties dropped, and deduplicated preserving first-seen order
// (case-sensitive). Always returns a non-nil slice so entries serialize
// with [] rather than null.
func NormalizeTokens(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, token := range raw {
		for _, part := range tokenSplit.Split(token, -1) {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// Now returns the current UTC time in ISO-8601 with second precision.
func Now() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
