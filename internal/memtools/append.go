package memtools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/memlog"
	"github.com/meridianhq/meridian/internal/search"
)

// AppendTool handles the mem_append MCP tool.
type AppendTool struct {
	store memlog.Store
}

// NewAppendTool creates an AppendTool with the given memory store.
func NewAppendTool(store memlog.Store) *AppendTool {
	return &AppendTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *AppendTool) Definition() mcp.Tool {
	return mcp.NewTool("mem_append",
		mcp.WithDescription(
			"Append one entry to the project memory log. Allocates the next mem-#### ID and "+
				"writes a single JSON line — entries are never rewritten or deleted. Use this to "+
				"record durable decisions, discoveries, and outcomes.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("One- or two-sentence summary of what to remember"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma- or space-separated topic tags, e.g. 'auth, config'"),
		),
		mcp.WithString("links",
			mcp.Description("Comma- or space-separated related IDs, e.g. 'TASK-003 mem-0012'"),
		),
	)
}

// Handle processes the mem_append tool call.
func (t *AppendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := req.RequireString("summary")
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

	params := memlog.AppendParams{
		Summary: summary,
		Tags:    tokenArg(req, "tags"),
		Links:   tokenArg(req, "links"),
	}

	entry, err := t.store.Append(projectRoot, params)
	if err != nil {
		if errors.Is(err, memlog.ErrValidation) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("appending memory entry: %w", err)
	}

	// Index update is best-effort: the log write already succeeded, and
	// mem_reindex can rebuild the index from the log at any time.
	if err := indexEntry(projectRoot, *entry); err != nil {
		log.Printf("Warning: memory entry %s written but search indexing failed: %v", entry.ID, err)
	}

	response := fmt.Sprintf("Memory %s recorded: %s", entry.ID, entry.Summary)
	if len(entry.Tags) > 0 {
		response += fmt.Sprintf(" [tags: %s]", strings.Join(entry.Tags, ", "))
	}
	if len(entry.Links) > 0 {
		response += fmt.Sprintf(" [links: %s]", strings.Join(entry.Links, ", "))
	}
	return mcp.NewToolResultText(response), nil
}

// tokenArg reads a comma/space-separated string argument as a raw token
// slice for the store to normalize.
func tokenArg(req mcp.CallToolRequest, key string) []string {
	raw := req.GetString(key, "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return []string{raw}
}

func indexEntry(projectRoot string, entry memlog.Entry) error {
	ix, err := search.Open(search.Path(projectRoot))
	if err != nil {
		return err
	}
	defer ix.Close()
	return ix.Add(entry)
}
