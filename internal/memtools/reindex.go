package memtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/memlog"
	"github.com/meridianhq/meridian/internal/search"
)

// ReindexTool handles the mem_reindex MCP tool.
// It rebuilds the derived search index from the memory log.
type ReindexTool struct {
	store memlog.Store
}

// NewReindexTool creates a ReindexTool with the given memory store.
func NewReindexTool(store memlog.Store) *ReindexTool {
	return &ReindexTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ReindexTool) Definition() mcp.Tool {
	return mcp.NewTool("mem_reindex",
		mcp.WithDescription(
			"Rebuild the full-text search index from the memory log. The log is the source "+
				"of truth; the index is a disposable cache, so this is always safe to run.",
		),
	)
}

// Handle processes the mem_reindex tool call.
func (t *ReindexTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	entries, skipped, err := t.store.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading memory log: %w", err)
	}

	ix, err := search.Open(search.Path(projectRoot))
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	defer ix.Close()

	count, err := ix.Reindex(entries)
	if err != nil {
		return nil, fmt.Errorf("rebuilding search index: %w", err)
	}

	response := fmt.Sprintf("Search index rebuilt: %d entries indexed.", count)
	if len(skipped) > 0 {
		response += fmt.Sprintf(" %d malformed log line(s) were skipped — run mem_list for details.", len(skipped))
	}
	return mcp.NewToolResultText(response), nil
}
