// Package main provides the playbook-mcp binary — MCP server exposing
// the playbook library to AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	pmcp "github.com/guidedops/playbook/pkg/mcp"
)

var version = "dev"

func main() {
	s := pmcp.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
