package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the meridian-status MCP prompt.
// It instructs the AI to read and present the project governance state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("meridian-status",
		mcp.WithPromptDescription(
			"Review the project's governance state: configuration, open tasks, "+
				"pending review, and recent memory entries.",
		),
	)
}

// Handle processes the meridian-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Meridian project status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `project_status` to check this project's governance state.\n\n" +
						"Then:\n" +
						"1. Show me the configuration and whether a plan review is pending\n" +
						"2. Run `task_list` and summarize the open tasks\n" +
						"3. Run `mem_list` and give me the highlights of recent memory entries\n" +
						"4. Tell me what I should work on next",
				),
			},
		},
	}, nil
}
