// Package prompts implements MCP prompt handlers for the governance
// workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the meridian-start MCP prompt.
// It guides the AI through initializing Meridian in the current project.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("meridian-start",
		mcp.WithPromptDescription(
			"Set up Meridian governance in this project: initialize the meridian/ "+
				"directory, pick a project type, and create the first task.",
		),
		mcp.WithArgument("project_type",
			mcp.ArgumentDescription("Governance profile: 'standard', 'hackathon', or 'production'. Default: standard"),
		),
		mcp.WithArgument("tdd_mode",
			mcp.ArgumentDescription("Enforce the test-first workflow: true or false. Default: false"),
		),
	)
}

// Handle processes the meridian-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectType := "standard"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["project_type"]; ok && t != "" {
			projectType = t
		}
	}

	tddMode := "false"
	if args := req.Params.Arguments; args != nil {
		if m, ok := args["tdd_mode"]; ok && m != "" {
			tddMode = m
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Set up Meridian (%s project)", projectType),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to set up Meridian governance in this project as a '%s' project with tdd_mode=%s.\n\n"+
						"Please:\n"+
						"1. Run `project_init` with project_type='%s' and tdd_mode='%s'\n"+
						"2. Run `project_status` and show me what was created\n"+
						"3. Ask me what the first task should be, then run `task_create` for it\n"+
						"4. Record the setup in the memory log with `mem_append`",
					projectType, tddMode, projectType, tddMode,
				)),
			},
		},
	}, nil
}
