// Package tools implements the MCP tool handlers for the task registry
// and project governance.
//
// Each tool is a struct receiving its dependencies (DIP) and exposing a
// Definition for registration plus a Handle compatible with mcp-go's
// CallToolRequest signature. One file per tool.
package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/config"
)

// findProjectRoot walks up from the current working directory looking
// for an existing meridian/config.yaml. If none is found, returns cwd —
// tools then operate on an uninitialized project.
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

// optionalString returns a pointer to the argument's value, or nil when
// the argument was not supplied. Distinguishes "absent" from "empty" so
// update can leave documents alone.
func optionalString(req mcp.CallToolRequest, key string) *string {
	args := req.GetArguments()
	raw, ok := args[key]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return &s
}
