package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/config"
	"github.com/meridianhq/meridian/internal/memlog"
	"github.com/meridianhq/meridian/internal/tasks"
)

// ProjectStatusTool handles the project_status MCP tool.
type ProjectStatusTool struct {
	tasks  tasks.Store
	memory memlog.Store
}

// NewProjectStatusTool creates a ProjectStatusTool with the given stores.
func NewProjectStatusTool(taskStore tasks.Store, memStore memlog.Store) *ProjectStatusTool {
	return &ProjectStatusTool{tasks: taskStore, memory: memStore}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("project_status",
		mcp.WithDescription(
			"Report the project's governance status: configuration, pending review flag, "+
				"task registry contents, and memory log health.",
		),
	)
}

// Handle processes the project_status tool call.
func (t *ProjectStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project root: %s\n", projectRoot)

	if !config.Exists(projectRoot) {
		b.WriteString("Not initialized — run project_init to scaffold the meridian/ directory.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	st, err := config.LoadState(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading governance state: %w", err)
	}
	fmt.Fprintf(&b, "Project type: %s\n", cfg.ProjectType)
	fmt.Fprintf(&b, "TDD mode: %t\n", bool(cfg.TDDMode))
	if st.PendingReview {
		b.WriteString("Pending review: YES — mutations are blocked until project_review clears it.\n")
	} else {
		b.WriteString("Pending review: no\n")
	}

	ids, err := t.tasks.List(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	if len(ids) == 0 {
		b.WriteString("Tasks: none\n")
	} else {
		fmt.Fprintf(&b, "Tasks (%d): %s\n", len(ids), strings.Join(ids, ", "))
	}

	entries, skipped, err := t.memory.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading memory log: %w", err)
	}
	fmt.Fprintf(&b, "Memory entries: %d\n", len(entries))
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "Memory log warning: %d malformed line(s) skipped — run mem_list for details.\n", len(skipped))
	}

	return mcp.NewToolResultText(b.String()), nil
}
