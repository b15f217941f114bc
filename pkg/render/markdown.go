// Package render turns step descriptions and runner notices into styled
// terminal output. The engine takes these as injected collaborators and
// never depends on them.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderer is a package-level glamour renderer wrapping descriptions to
// a fixed column width for the cooked-terminal prompt flow.
var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		renderer = r
	}
}

// Markdown converts a markdown description to styled terminal output.
// Falls back to the raw input if glamour is unavailable or fails.
func Markdown(md string) string {
	if renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	// Glamour pads with trailing newlines; the runner adds its own.
	return strings.TrimRight(out, "\n")
}
