// Package lineedit wraps chzyer/readline as the engine's line-input
// resource: prompting, persistent input history, and tab completion
// driven by the engine's completion-hook protocol.
package lineedit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/guidedops/playbook/pkg/engine"
)

// HistoryLimit caps the persisted input history to the most recent
// entries. The history is an editing convenience only — engine logic
// never consults it.
const HistoryLimit = 256

// DefaultHistoryPath returns the fixed history location in the user's
// home directory.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".playbook_history")
}

// Editor is the process-wide terminal line editor. It implements
// engine.LineEditor. History is loaded when the editor is created and
// persisted by readline as lines are entered.
type Editor struct {
	rl        *readline.Instance
	completer *hookCompleter
}

// NewEditor opens the terminal line editor. historyFile may be empty to
// disable persistent history.
func NewEditor(historyFile string) (*Editor, error) {
	c := &hookCompleter{}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          engine.DefaultPrompt,
		HistoryFile:     historyFile,
		HistoryLimit:    HistoryLimit,
		AutoComplete:    c,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Editor{rl: rl, completer: c}, nil
}

// ReadLine blocks for one line of operator input. A closed input
// channel — and an interrupt, which abandons the prompt the same way —
// is reported as io.EOF so the engine can halt.
func (e *Editor) ReadLine(prompt string) (string, error) {
	e.rl.SetPrompt(prompt)
	line, err := e.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("read line: %w", err)
	}
	return line, nil
}

// SetCompletion installs the completion hook. At most one hook is
// active at a time; a second install replaces the first.
func (e *Editor) SetCompletion(fn engine.CompletionFunc) {
	e.completer.fn = fn
}

// ClearCompletion removes the installed completion hook.
func (e *Editor) ClearCompletion() {
	e.completer.fn = nil
}

// Close releases the terminal.
func (e *Editor) Close() error {
	return e.rl.Close()
}
