package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is the persistent governance state record.
type State struct {
	// PendingReview gates mutating operations: while true, task and
	// memory writes are refused until the review is cleared.
	PendingReview bool   `json:"pending_review"`
	UpdatedAt     string `json:"updated_at"`
}

// LoadState reads state.json. A missing file is the zero state: nothing
// pending.
func LoadState(projectRoot string) (*State, error) {
	data, err := os.ReadFile(StatePath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading state.json: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state.json: %w", err)
	}
	return &st, nil
}

// SaveState writes state.json, refreshing the timestamp and creating the
// meridian directory if needed.
func SaveState(projectRoot string, st *State) error {
	st.UpdatedAt = time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	path := StatePath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating meridian directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
