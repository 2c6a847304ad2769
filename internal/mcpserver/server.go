// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasdict capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/oasdict"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasdict MCP server: flattens OpenAPI 3.x schemas into data-dictionary rows and summarizes HTTP error responses.

Configuration: defaults are configurable via OASDICT_* environment variables set in your MCP client config.

Key settings:
- OASDICT_ROW_LIMIT (default: 200): default page size for dictionary rows
- OASDICT_MAX_LIMIT (default: 1000): upper bound for client-requested limits
- OASDICT_MAX_DEPTH (default: 100): schema nesting depth guard`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasdict", Version: oasdict.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dict",
		Description: "Flatten an OpenAPI 3.x document into data-dictionary rows: one row per structural property with type, constraints, and documentation. Selects all component schemas by default; narrow with schema, or use operations/all for operation-derived rows. Use offset/limit to paginate; the default page size is configurable via OASDICT_ROW_LIMIT.",
	}, handleDict)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "errors",
		Description: "Summarize the HTTP statuses, error codes, and messages an API can return. Detects conventional code and message properties in JSON error payloads. Use group_by_status to collapse to one row per status.",
	}, handleErrors)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.RowLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.RowLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
