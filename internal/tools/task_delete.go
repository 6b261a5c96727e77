package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/tasks"
)

// TaskDeleteTool handles the task_delete MCP tool.
type TaskDeleteTool struct {
	store tasks.Store
}

// NewTaskDeleteTool creates a TaskDeleteTool with the given task store.
func NewTaskDeleteTool(store tasks.Store) *TaskDeleteTool {
	return &TaskDeleteTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("task_delete",
		mcp.WithDescription(
			"Delete a task: removes its backlog entry first, then the task folder with all "+
				"its documents. The ID becomes available for reuse if it was the highest.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task to delete, e.g. TASK-003"),
		),
	)
}

// Handle processes the task_delete tool call.
func (t *TaskDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	if gate, err := reviewGate(projectRoot); err != nil {
		return nil, err
	} else if gate != nil {
		return gate, nil
	}

	if err := t.store.Delete(projectRoot, taskID); err != nil {
		if errors.Is(err, tasks.ErrNotFound) || errors.Is(err, tasks.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("deleting task %s: %w", taskID, err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Task %s deleted: backlog entry removed, folder and documents gone.", taskID,
	)), nil
}
