package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/config"
)

// ProjectReviewTool handles the project_review MCP tool.
// It sets or clears the pending_review flag that gates mutating tools.
type ProjectReviewTool struct{}

// NewProjectReviewTool creates a ProjectReviewTool.
func NewProjectReviewTool() *ProjectReviewTool {
	return &ProjectReviewTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectReviewTool) Definition() mcp.Tool {
	return mcp.NewTool("project_review",
		mcp.WithDescription(
			"Manage the plan review gate. 'request' marks a plan as awaiting user review, "+
				"which blocks all mutating tools. 'clear' lifts the block after the user has "+
				"reviewed the plan.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Whether to request a review or clear a pending one"),
			mcp.Enum("request", "clear"),
		),
	)
}

// Handle processes the project_review tool call.
func (t *ProjectReviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	st, err := config.LoadState(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading governance state: %w", err)
	}

	switch action {
	case "request":
		if st.PendingReview {
			return mcp.NewToolResultText("A review is already pending."), nil
		}
		st.PendingReview = true
	case "clear":
		if !st.PendingReview {
			return mcp.NewToolResultText("No review was pending — nothing to clear."), nil
		}
		st.PendingReview = false
	default:
		return mcp.NewToolResultError(fmt.Sprintf("action %q must be 'request' or 'clear'", action)), nil
	}

	if err := config.SaveState(projectRoot, st); err != nil {
		return nil, fmt.Errorf("saving governance state: %w", err)
	}

	if st.PendingReview {
		return mcp.NewToolResultText(
			"Review requested. Mutating tools are now blocked — present the plan to the user, " +
				"then call project_review with action='clear'.",
		), nil
	}
	return mcp.NewToolResultText("Review cleared. Mutating tools are unblocked."), nil
}
