package memtools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meridianhq/meridian/internal/search"
)

// SearchTool handles the mem_search MCP tool.
type SearchTool struct{}

// NewSearchTool creates a SearchTool.
func NewSearchTool() *SearchTool {
	return &SearchTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("mem_search",
		mcp.WithDescription(
			"Full-text search over the memory log (summaries, tags, links), best matches "+
				"first. The index is built incrementally by mem_append; run mem_reindex if "+
				"results look stale.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms, e.g. 'auth token refresh'"),
		),
		mcp.WithString("limit",
			mcp.Description("Maximum number of results (default 10)"),
		),
	)
}

// Handle processes the mem_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query must not be empty"), nil
	}

	limit := 0
	if raw := req.GetString("limit", ""); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("limit %q must be a positive integer", raw)), nil
		}
		limit = n
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	ix, err := search.Open(search.Path(projectRoot))
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	defer ix.Close()

	results, err := ix.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching memory: %w", err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No memory entries match %q.", query)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d match(es) for %q:\n", len(results), query)
	for _, r := range results {
		fmt.Fprintf(&b, "  %s  %s  %s", r.ID, r.Timestamp, r.Summary)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&b, " [tags: %s]", strings.Join(r.Tags, ", "))
		}
		if len(r.Links) > 0 {
			fmt.Fprintf(&b, " [links: %s]", strings.Join(r.Links, ", "))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
