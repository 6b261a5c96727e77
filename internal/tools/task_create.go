package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/tasks"
)

// TaskCreateTool handles the task_create MCP tool.
// It scaffolds a new numbered task folder from the template and adds the
// backlog index entry.
type TaskCreateTool struct {
	store tasks.Store
}

// NewTaskCreateTool creates a TaskCreateTool with the given task store.
func NewTaskCreateTool(store tasks.Store) *TaskCreateTool {
	return &TaskCreateTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_create",
		mcp.WithDescription(
			"Create a new task. Allocates the next TASK-### ID, scaffolds the task folder "+
				"from the template (brief, plan, context documents), and adds a backlog entry "+
				"when a backlog block is supplied. Supplied documents replace the template "+
				"defaults; omitted ones keep them.",
		),
		mcp.WithString("brief",
			mcp.Description("Content for the task brief (<ID>.yaml): objective, scope, acceptance criteria"),
		),
		mcp.WithString("plan",
			mcp.Description("Content for the approved plan (<ID>-plan.md)"),
		),
		mcp.WithString("context",
			mcp.Description("Content for the running context notes (<ID>-context.md)"),
		),
		mcp.WithString("backlog_block",
			mcp.Description("Pre-formatted YAML list item for the backlog index. Must carry 'id: <the new ID>' — "+
				"use the literal TASK-000 placeholder for the id value and it will be substituted"),
		),
	)
}

// Handle processes the task_create tool call.
func (t *TaskCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	if gate, err := reviewGate(projectRoot); err != nil {
		return nil, err
	} else if gate != nil {
		return gate, nil
	}

	params := tasks.CreateParams{
		Docs: tasks.Documents{
			Brief:   optionalString(req, "brief"),
			Plan:    optionalString(req, "plan"),
			Context: optionalString(req, "context"),
		},
		IndexBlock: req.GetString("backlog_block", ""),
	}

	// The caller doesn't know the new ID yet; let the block reference the
	// placeholder and substitute after allocation. Substitution happens in
	// two steps because the store allocates internally.
	result, err := t.store.Create(projectRoot, substitutePlaceholder(params, projectRoot, t.store))
	if err != nil {
		if errors.Is(err, tasks.ErrNotFound) || errors.Is(err, tasks.ErrConflict) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}

	response := fmt.Sprintf("Task %s created.", result.ID)
	if len(result.Written) > 0 {
		response += fmt.Sprintf(" Documents written: %s.", strings.Join(result.Written, ", "))
	} else {
		response += " All documents kept template defaults."
	}
	return mcp.NewToolResultText(response), nil
}

// substitutePlaceholder rewrites TASK-000 references in caller-supplied
// content to the ID the allocator will assign. Allocation here and inside
// Create see the same directory state — single writer, no interleaving.
func substitutePlaceholder(p tasks.CreateParams, projectRoot string, store tasks.Store) tasks.CreateParams {
	nextID, err := store.NextID(projectRoot)
	if err != nil {
		return p
	}

	replace := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.ReplaceAll(*s, tasks.TemplateID, nextID)
		return &v
	}

	p.Docs.Brief = replace(p.Docs.Brief)
	p.Docs.Plan = replace(p.Docs.Plan)
	p.Docs.Context = replace(p.Docs.Context)
	p.IndexBlock = strings.ReplaceAll(p.IndexBlock, tasks.TemplateID, nextID)
	return p
}
