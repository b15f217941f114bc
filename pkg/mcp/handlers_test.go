package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

const sampleDoc = `apiVersion: playbook/v0
meta:
  name: sample
  description: Sample for handler tests.
steps:
  - id: note
    type: message
    description: noop
  - id: go_ahead
    type: confirm
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.playbook.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestHandleValidateMissingPath(t *testing.T) {
	result, err := HandleValidate(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing path")
	}
}

func TestHandleValidateValidFile(t *testing.T) {
	path := writeSample(t)
	result, err := HandleValidate(context.Background(), callRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "sample is valid (2 steps)") {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestHandleValidateInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.playbook.yaml")
	bad := "apiVersion: playbook/v0\nmeta:\n  name: bad\nsteps:\n  - id: s1\n    type: shell\n"
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	result, err := HandleValidate(context.Background(), callRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for invalid playbook")
	}
	if text := resultText(t, result); !strings.Contains(text, "[domain]") {
		t.Errorf("expected domain error in %q", text)
	}
}

func TestHandleSchema(t *testing.T) {
	result, err := HandleSchema(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatal("expected success")
	}
	if text := resultText(t, result); !strings.Contains(text, "playbook-v0.json") {
		t.Errorf("schema id missing from %q", text)
	}
}

func TestHandleListFindsLibraryFiles(t *testing.T) {
	path := writeSample(t)
	result, err := HandleList(context.Background(), callRequest(map[string]any{
		"library": filepath.Dir(path),
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, `"sample"`) {
		t.Errorf("sample playbook missing from %q", text)
	}
}

func TestHandleDescribe(t *testing.T) {
	path := writeSample(t)
	result, err := HandleDescribe(context.Background(), callRequest(map[string]any{
		"name":    "sample",
		"library": filepath.Dir(path),
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	for _, want := range []string{`"go_ahead"`, `"confirm"`, "Sample for handler tests."} {
		if !strings.Contains(text, want) {
			t.Errorf("describe output missing %q:\n%s", want, text)
		}
	}
}

func TestHandleDescribeUnknown(t *testing.T) {
	result, err := HandleDescribe(context.Background(), callRequest(map[string]any{"name": "ghost"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for unknown playbook")
	}
}
