package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/tasks"
)

// TaskUpdateTool handles the task_update MCP tool.
type TaskUpdateTool struct {
	store tasks.Store
}

// NewTaskUpdateTool creates a TaskUpdateTool with the given task store.
func NewTaskUpdateTool(store tasks.Store) *TaskUpdateTool {
	return &TaskUpdateTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_update",
		mcp.WithDescription(
			"Update an existing task's documents and/or its backlog entry. Only the supplied "+
				"documents are rewritten; omitted ones are untouched. A supplied backlog block "+
				"replaces the task's existing index entry in place.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task to update, e.g. TASK-003"),
		),
		mcp.WithString("brief",
			mcp.Description("Replacement content for the task brief (<ID>.yaml)"),
		),
		mcp.WithString("plan",
			mcp.Description("Replacement content for the plan (<ID>-plan.md)"),
		),
		mcp.WithString("context",
			mcp.Description("Replacement content for the context notes (<ID>-context.md)"),
		),
		mcp.WithString("backlog_block",
			mcp.Description("Replacement YAML list item for the backlog index, carrying 'id: <task_id>'"),
		),
	)
}

// Handle processes the task_update tool call.
func (t *TaskUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	params := tasks.UpdateParams{
		Docs: tasks.Documents{
			Brief:   optionalString(req, "brief"),
			Plan:    optionalString(req, "plan"),
			Context: optionalString(req, "context"),
		},
		IndexBlock: req.GetString("backlog_block", ""),
	}

	result, err := t.store.Update(projectRoot, taskID, params)
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) || errors.Is(err, tasks.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}

	if result.NoOp {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Nothing to update for %s — no documents or backlog block supplied.", taskID,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Task %s updated. Documents written: %s.", result.ID, strings.Join(result.Written, ", "),
	)), nil
}
