package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"codebrief/internal/index"
	"codebrief/internal/search"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Index the working directory and serve it over MCP stdio",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol, so indexing output goes to stderr.
	idx, err := buildIndex(cmd.Context(), root, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	s := mcpserver.NewMCPServer("codebrief", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(searchIndexTool(), makeSearchHandler(idx))
	s.AddTool(getFileSummaryTool(), makeFileSummaryHandler(idx))
	s.AddTool(listIndexedFilesTool(), makeListFilesHandler(idx))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchIndexTool() mcp.Tool {
	return mcp.NewTool("search_index",
		mcp.WithDescription("Keyword search over the file summaries. Returns every file whose summary contains at least one query word (case-insensitive substring match)."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Whitespace-separated keywords"),
		),
	)
}

func getFileSummaryTool() mcp.Tool {
	return mcp.NewTool("get_file_summary",
		mcp.WithDescription("Get the generated summary for a specific indexed file."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path as indexed (relative to the project root, slash-separated)"),
		),
	)
}

func listIndexedFilesTool() mcp.Tool {
	return mcp.NewTool("list_indexed_files",
		mcp.WithDescription("List all files in the index with a summary snippet."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("extension",
			mcp.Description("Optional extension filter (e.g. 'rs', 'md'). Case-insensitive."),
		),
	)
}

// --- Handler factories ---

func makeSearchHandler(idx *index.Index) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		return mcp.NewToolResultText(formatSearchResults(query, search.Search(idx, query))), nil
	}
}

func makeFileSummaryHandler(idx *index.Index) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p := req.GetString("path", "")
		if p == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		r, ok := idx.Get(p)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("file %q not found in index; call list_indexed_files to see available paths", p)), nil
		}
		return mcp.NewToolResultText(formatRecord(r)), nil
	}
}

func makeListFilesHandler(idx *index.Index) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		extFilter := strings.TrimPrefix(strings.ToLower(req.GetString("extension", "")), ".")

		var filtered []index.Record
		for _, r := range idx.Records() {
			if extFilter == "" || strings.TrimPrefix(strings.ToLower(path.Ext(r.Path)), ".") == extFilter {
				filtered = append(filtered, r)
			}
		}

		var sb strings.Builder
		if extFilter != "" {
			fmt.Fprintf(&sb, "## Indexed files (%d, extension: %s)\n\n", len(filtered), extFilter)
		} else {
			fmt.Fprintf(&sb, "## Indexed files (%d)\n\n", len(filtered))
		}

		for _, r := range filtered {
			fmt.Fprintf(&sb, "- **%s**%s: %s\n", r.Path, degradedTag(r), snippet(r.Summary, 120))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- Formatting helpers ---

func formatSearchResults(query string, records []index.Record) string {
	if len(records) == 0 {
		return fmt.Sprintf("No results found for query: %q", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q (%d files)\n\n", query, len(records))
	for _, r := range records {
		sb.WriteString(formatRecord(r))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatRecord(r index.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### `%s`%s\n\n", r.Path, degradedTag(r))
	if r.Degraded && r.Err != "" {
		fmt.Fprintf(&sb, "**Summarization failed:** %s\n\n", r.Err)
	}
	fmt.Fprintf(&sb, "%s\n", r.Summary)
	return sb.String()
}

func degradedTag(r index.Record) string {
	if r.Degraded {
		return " (fallback)"
	}
	return ""
}

// snippet returns the first line of s, cut to at most n runes.
func snippet(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if runes := []rune(s); len(runes) > n {
		s = string(runes[:n]) + "..."
	}
	if s == "" {
		return "(no summary)"
	}
	return s
}
