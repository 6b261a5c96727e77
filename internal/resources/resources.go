// Package resources implements MCP resource handlers for the governance
// layer.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (meridian://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/config"
	"github.com/meridianhq/meridian/internal/tasks"
)

// Handler manages Meridian resource endpoints.
type Handler struct {
	tasks tasks.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(taskStore tasks.Store) *Handler {
	return &Handler{tasks: taskStore}
}

// statusPayload is the JSON shape served by the status resource.
type statusPayload struct {
	Initialized   bool     `json:"initialized"`
	ProjectType   string   `json:"project_type"`
	TDDMode       bool     `json:"tdd_mode"`
	PendingReview bool     `json:"pending_review"`
	Tasks         []string `json:"tasks"`
}

// StatusResource returns the MCP resource definition for project status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"meridian://project/status",
		"Meridian Project Status",
		mcp.WithResourceDescription("Current governance configuration, review gate, and task registry"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current project status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	projectRoot, err := findRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	payload := statusPayload{
		Initialized: config.Exists(projectRoot),
		Tasks:       []string{},
	}

	cfg, err := config.Load(projectRoot)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	payload.ProjectType = string(cfg.ProjectType)
	payload.TDDMode = bool(cfg.TDDMode)

	st, err := config.LoadState(projectRoot)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	payload.PendingReview = st.PendingReview

	ids, err := h.tasks.List(projectRoot)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if ids != nil {
		payload.Tasks = ids
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
