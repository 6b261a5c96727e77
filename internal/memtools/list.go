package memtools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/memlog"
)

// defaultListLimit caps mem_list output when no limit is given.
const defaultListLimit = 20

// ListTool handles the mem_list MCP tool.
type ListTool struct {
	store memlog.Store
}

// NewListTool creates a ListTool with the given memory store.
func NewListTool(store memlog.Store) *ListTool {
	return &ListTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("mem_list",
		mcp.WithDescription(
			"List the most recent memory log entries, newest last, and report any malformed "+
				"lines that were skipped while reading the log.",
		),
		mcp.WithString("limit",
			mcp.Description("Maximum number of entries to show (default 20)"),
		),
	)
}

// Handle processes the mem_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := defaultListLimit
	if raw := req.GetString("limit", ""); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("limit %q must be a positive integer", raw)), nil
		}
		limit = n
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	entries, skipped, err := t.store.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading memory log: %w", err)
	}

	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString("Memory log is empty.\n")
	} else {
		start := 0
		if len(entries) > limit {
			start = len(entries) - limit
		}
		fmt.Fprintf(&b, "Memory entries (%d of %d):\n", len(entries)-start, len(entries))
		for _, e := range entries[start:] {
			fmt.Fprintf(&b, "  %s  %s  %s", e.ID, e.Timestamp, e.Summary)
			if len(e.Tags) > 0 {
				fmt.Fprintf(&b, " [tags: %s]", strings.Join(e.Tags, ", "))
			}
			if len(e.Links) > 0 {
				fmt.Fprintf(&b, " [links: %s]", strings.Join(e.Links, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped %d malformed line(s):\n", len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(&b, "  line %d: %s\n", s.Line, s.Reason)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
