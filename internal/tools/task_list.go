package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/tasks"
)

// TaskListTool handles the task_list MCP tool.
type TaskListTool struct {
	store tasks.Store
}

// NewTaskListTool creates a TaskListTool with the given task store.
func NewTaskListTool(store tasks.Store) *TaskListTool {
	return &TaskListTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskListTool) Definition() mcp.Tool {
	return mcp.NewTool("task_list",
		mcp.WithDescription(
			"List the task folders in numeric order and show the backlog index contents.",
		),
	)
}

// Handle processes the task_list tool call.
func (t *TaskListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	ids, err := t.store.List(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var b strings.Builder
	if len(ids) == 0 {
		b.WriteString("No tasks.\n")
	} else {
		fmt.Fprintf(&b, "Tasks (%d):\n", len(ids))
		for _, id := range ids {
			fmt.Fprintf(&b, "  %s\n", id)
		}
	}

	index, err := os.ReadFile(tasks.IndexPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			b.WriteString("\nBacklog index: not present.\n")
			return mcp.NewToolResultText(b.String()), nil
		}
		return nil, fmt.Errorf("reading backlog index: %w", err)
	}

	b.WriteString("\nBacklog index (backlog.yaml):\n")
	b.Write(index)
	return mcp.NewToolResultText(b.String()), nil
}
