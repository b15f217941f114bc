package engine

import (
	"errors"
	"fmt"
	"io"
)

// DefaultPrompt is used by input steps that don't set their own prompt.
const DefaultPrompt = "> "

// CompletionFunc offers candidate completions for the typed prefix.
// The line editor calls it with index 0, 1, 2, … until ok is false,
// passing the currently typed prefix each time.
type CompletionFunc func(prefix string, index int) (candidate string, ok bool)

// LineEditor is the process-wide line-input resource shared by
// interactive steps. At most one completion hook is installed at a time;
// steps pair SetCompletion in Prepare with ClearCompletion in Cleanup.
// A step that forgets to clear its hook leaks it to the next step.
type LineEditor interface {
	// ReadLine blocks for one line of operator input, displaying the
	// prompt at the cursor. It returns io.EOF when the input channel is
	// closed before any text arrives.
	ReadLine(prompt string) (string, error)

	SetCompletion(fn CompletionFunc)
	ClearCompletion()
}

// AcceptFunc interprets one line of operator input.
type AcceptFunc func(response string) (Transition, error)

// InputStep blocks for a single line of operator input and delegates
// interpretation to Accept. It is the reusable base for interactive
// steps: concrete steps embed it and supply Accept (and optionally
// Complete) at construction.
type InputStep struct {
	Desc     string
	Prompt   string         // shown at the input cursor; DefaultPrompt if empty
	Accept   AcceptFunc     // required; interprets the raw response
	Complete CompletionFunc // optional; installed during Prepare, removed in Cleanup
}

// NewInputStep builds a generic input step around an interpretation hook.
func NewInputStep(description, prompt string, accept AcceptFunc) *InputStep {
	if description == "" {
		description = "Please enter the required information to proceed."
	}
	return &InputStep{Desc: description, Prompt: prompt, Accept: accept}
}

func (s *InputStep) Description() string { return s.Desc }

// Prepare installs the completion hook, if any, on the runner's editor.
func (s *InputStep) Prepare(r *Runner) error {
	if s.Complete != nil && r.Editor != nil {
		r.Editor.SetCompletion(s.Complete)
	}
	return nil
}

// Cleanup removes the completion hook installed by Prepare.
func (s *InputStep) Cleanup(r *Runner) error {
	if s.Complete != nil && r.Editor != nil {
		r.Editor.ClearCompletion()
	}
	return nil
}

// Execute reads one line of input. End-of-input halts without invoking
// the interpretation hook; any other read failure is fatal.
func (s *InputStep) Execute(r *Runner) (Transition, error) {
	if r.Editor == nil {
		return Halt, errors.New("no line editor attached to runner")
	}
	if s.Accept == nil {
		return Halt, errors.New("input step has no accept hook")
	}

	prompt := s.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	line, err := r.Editor.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Halt, nil
		}
		return Halt, fmt.Errorf("read input: %w", err)
	}
	return s.Accept(line)
}
