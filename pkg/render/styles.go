package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Status glyphs — convey meaning without relying on color alone.
const (
	GlyphOK    = "✓"
	GlyphFail  = "✗"
	GlyphRetry = "↻"
	GlyphRun   = "▶"
	GlyphSkip  = "⊘"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorDim    = lipgloss.Color("240")
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	warnStyle = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// OK styles a success line.
func OK(s string) string { return okStyle.Render(GlyphOK + " " + s) }

// Fail styles a failure line.
func Fail(s string) string { return failStyle.Render(GlyphFail + " " + s) }

// Warn styles a warning line.
func Warn(s string) string { return warnStyle.Render(GlyphRetry + " " + s) }

// Dim styles secondary detail.
func Dim(s string) string { return dimStyle.Render(s) }

// Truncate shortens s to at most width terminal columns, appending an
// ellipsis when anything was cut. Width-aware for wide runes.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
