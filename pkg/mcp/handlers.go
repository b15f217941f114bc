package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/guidedops/playbook/pkg/library"
	"github.com/guidedops/playbook/pkg/schema"
)

// HandleList implements the playbook/list MCP tool.
func HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirs := library.SearchDirs(extraDirs(req))
	entries := library.List(dirs)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshal entries: %v", err)), nil
	}
	return textResult(string(data)), nil
}

// HandleDescribe implements the playbook/describe MCP tool.
func HandleDescribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return errorResult("name argument is required"), nil
	}

	if _, ok := library.Builtin(name); ok {
		return textResult(fmt.Sprintf("%s is a builtin playbook; it has no YAML document", name)), nil
	}

	path, err := library.ResolveFile(name, library.SearchDirs(extraDirs(req)))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	pb, errs := schema.ValidateFile(path)
	if hasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}

	type stepOutline struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title,omitempty"`
		When  string `json:"when,omitempty"`
	}
	outline := make([]stepOutline, 0, len(pb.Steps))
	for _, st := range pb.Steps {
		outline = append(outline, stepOutline{ID: st.ID, Type: st.Type, Title: st.Title, When: st.When})
	}

	data, err := json.MarshalIndent(map[string]any{
		"name":        pb.Meta.Name,
		"description": pb.Meta.Description,
		"file":        filepath.Base(path),
		"steps":       outline,
	}, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshal description: %v", err)), nil
	}
	return textResult(string(data)), nil
}

// HandleValidate implements the playbook/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	pb, errs := schema.ValidateFile(path)
	if hasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(fmt.Sprintf("✓ %s is valid (%d steps)", pb.Meta.Name, len(pb.Steps))), nil
}

// HandleSchema implements the playbook/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// extraDirs parses the optional library argument, a PATH-style list of
// extra library directories.
func extraDirs(req mcp.CallToolRequest) []string {
	raw, _ := req.GetArguments()["library"].(string)
	if raw == "" {
		return nil
	}
	var dirs []string
	for _, d := range filepath.SplitList(raw) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func hasErrors(errs []*schema.ValidationError) bool {
	for _, e := range errs {
		if e.Severity == "error" {
			return true
		}
	}
	return false
}

func formatErrors(errs []*schema.ValidationError) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity == "error" {
			msgs = append(msgs, fmt.Sprintf("[%s] %s", e.Phase, e.Message))
		}
	}
	return strings.Join(msgs, "; ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
		IsError: true,
	}
}
