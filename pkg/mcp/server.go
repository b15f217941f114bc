// Package mcp exposes the playbook library to AI agents over the Model
// Context Protocol. Only inspection tools are registered: playbooks are
// interactive by nature, so execution stays with a human operator at a
// terminal.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with playbook tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"playbook",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("playbook/list",
			mcp.WithDescription("List playbooks available in the library"),
			mcp.WithString("library", mcp.Description("Extra library directories, separated like PATH (optional)")),
		),
		HandleList,
	)

	s.AddTool(
		mcp.NewTool("playbook/describe",
			mcp.WithDescription("Show a playbook's metadata and step outline"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Playbook name or YAML file path")),
			mcp.WithString("library", mcp.Description("Extra library directories, separated like PATH (optional)")),
		),
		HandleDescribe,
	)

	s.AddTool(
		mcp.NewTool("playbook/validate",
			mcp.WithDescription("Validate a playbook YAML file"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the playbook YAML file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("playbook/schema",
			mcp.WithDescription("Export the playbook JSON Schema (Draft 2020-12)"),
		),
		HandleSchema,
	)

	return s
}
