// Package memtools implements the MCP tool handlers for the memory log:
// appending, listing, full-text search, and index rebuild.
package memtools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/config"
)

// findProjectRoot walks up from the current working directory looking
// for an existing meridian/config.yaml. If none is found, returns cwd.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		if config.Exists(current) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}

// reviewGate checks the pending_review flag. It returns a non-nil tool
// result when the mutation must be refused.
func reviewGate(projectRoot string) (*mcp.CallToolResult, error) {
	st, err := config.LoadState(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading governance state: %w", err)
	}
	if st.PendingReview {
		return mcp.NewToolResultError(
			"A plan review is pending — mutations are blocked until it is cleared. " +
				"Present the plan to the user, then call `project_review` with action='clear'.",
		), nil
	}
	return nil, nil
}
