package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/config"
	"github.com/meridianhq/meridian/internal/tasks"
	"github.com/meridianhq/meridian/internal/templates"
)

// ProjectInitTool handles the project_init MCP tool.
// It scaffolds the meridian/ directory: config, governance state, backlog
// seed, and the default task template folder.
type ProjectInitTool struct {
	renderer *templates.Renderer
}

// NewProjectInitTool creates a ProjectInitTool with the given renderer.
func NewProjectInitTool(renderer *templates.Renderer) *ProjectInitTool {
	return &ProjectInitTool{renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectInitTool) Definition() mcp.Tool {
	return mcp.NewTool("project_init",
		mcp.WithDescription(
			"Initialize Meridian in the current project. Creates the meridian/ directory with "+
				"config.yaml, the governance state record, an empty backlog, and the TASK-000 "+
				"template folder. Fails if the project is already initialized.",
		),
		mcp.WithString("project_type",
			mcp.Description("Governance profile for this project"),
			mcp.Enum("standard", "hackathon", "production"),
		),
		mcp.WithString("tdd_mode",
			mcp.Description("Whether the test-first workflow is enforced (true/false/yes/no/on/off/1/0)"),
		),
	)
}

// Handle processes the project_init tool call.
func (t *ProjectInitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	if config.Exists(projectRoot) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Project already initialized: %s exists. Edit the config directly to change settings.",
			config.ConfigPath(projectRoot),
		)), nil
	}

	projectType := config.ProjectType(req.GetString("project_type", string(config.TypeStandard)))
	if err := config.ValidateType(projectType); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tddMode, err := config.ParseToggle(req.GetString("tdd_mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.scaffold(projectRoot, projectType, tddMode); err != nil {
		return nil, fmt.Errorf("initializing project: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Meridian initialized at %s (project_type=%s, tdd_mode=%t). "+
			"Created config.yaml, state.json, tasks/backlog.yaml and the %s folder.",
		config.Path(projectRoot), projectType, tddMode, tasks.TemplateDirName,
	)), nil
}

func (t *ProjectInitTool) scaffold(projectRoot string, projectType config.ProjectType, tddMode bool) error {
	if err := os.MkdirAll(tasks.TemplatePath(projectRoot), 0o755); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}

	cfg, err := t.renderer.RenderConfig(string(projectType), tddMode)
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.ConfigPath(projectRoot), []byte(cfg), 0o644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	if err := config.SaveState(projectRoot, &config.State{}); err != nil {
		return err
	}

	seed, err := templates.BacklogSeed()
	if err != nil {
		return err
	}
	if err := os.WriteFile(tasks.IndexPath(projectRoot), seed, 0o644); err != nil {
		return fmt.Errorf("writing backlog seed: %w", err)
	}

	folder, err := templates.TemplateFolderFiles()
	if err != nil {
		return err
	}
	for name, data := range folder {
		dst := filepath.Join(tasks.TemplatePath(projectRoot), name)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing template file %s: %w", name, err)
		}
	}

	return nil
}
