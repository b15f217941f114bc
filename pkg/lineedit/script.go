package lineedit

import (
	"io"

	"github.com/guidedops/playbook/pkg/engine"
)

// Script is an in-memory engine.LineEditor for tests and replays: it
// plays back scripted responses in order and signals end-of-input once
// they are exhausted, recording prompt and completion-hook activity.
type Script struct {
	Lines    []string
	Prompts  []string
	Installs int
	Removals int
	Hook     engine.CompletionFunc
}

// NewScript builds a scripted editor from the given responses.
func NewScript(lines ...string) *Script {
	return &Script{Lines: lines}
}

func (s *Script) ReadLine(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Lines) == 0 {
		return "", io.EOF
	}
	line := s.Lines[0]
	s.Lines = s.Lines[1:]
	return line, nil
}

func (s *Script) SetCompletion(fn engine.CompletionFunc) {
	s.Installs++
	s.Hook = fn
}

func (s *Script) ClearCompletion() {
	s.Removals++
	s.Hook = nil
}
