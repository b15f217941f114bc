package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrHalted is returned by Runner.Run after the halt path has requested
// process termination. Callers only observe it when the exit function
// was replaced (tests, embedding).
var ErrHalted = errors.New("playbook halted")

// Runner drives a single step through its lifecycle and interprets the
// returned transition. All collaborators are explicit so tests can
// substitute fakes: output writer, description renderer, line editor,
// and the exit function invoked on the halt path.
//
// The lifecycle contract is: Prepare precedes every Execute attempt,
// including retries; Cleanup runs exactly once after a Continue outcome.
// Cleanup is deliberately skipped on the halt path so whatever state the
// step prepared stays visible for post-mortem inspection.
type Runner struct {
	Out    io.Writer             // operator-facing output
	Render func(string) string   // description renderer; nil prints raw text
	Editor LineEditor            // shared line-input resource; nil disables interactive steps
	Exit   func(code int)        // process termination, default os.Exit
	Vars   map[string]string     // shared variable scope for captures and guards
	Transcript *TranscriptWriter // optional outcome transcript; nil disables
}

// NewRunner returns a runner wired to stdout and os.Exit.
func NewRunner() *Runner {
	return &Runner{
		Out:  os.Stdout,
		Exit: os.Exit,
		Vars: make(map[string]string),
	}
}

// Run executes one step to a terminal outcome.
//
// A Retry transition loops back to Prepare on the same step instance;
// there is no retry limit. A Halt transition — or any transition outside
// the defined set — prints a notice naming the step and terminates the
// process with a non-zero status. Errors from any lifecycle phase are
// fatal and propagate to the caller wrapped with the step name.
func (r *Runner) Run(step Step) error {
	name := StepName(step)

	for attempt := 1; ; attempt++ {
		if p, ok := step.(Preparer); ok {
			if err := p.Prepare(r); err != nil {
				return fmt.Errorf("prepare %s: %w", name, err)
			}
		}

		r.printDescription(step)

		t, err := step.Execute(r)
		if err != nil {
			return fmt.Errorf("step %s: %w", name, err)
		}

		switch t {
		case Continue:
			r.record(name, Continue, attempt)
			if c, ok := step.(Cleaner); ok {
				if err := c.Cleanup(r); err != nil {
					return fmt.Errorf("cleanup %s: %w", name, err)
				}
			}
			return nil

		case Retry:
			r.record(name, Retry, attempt)
			fmt.Fprintf(r.Out, "↻ re-trying %s...\n", name)
			// Loop: Prepare runs again, Cleanup has not run.

		default:
			// Halt, or a transition outside the defined set: fail safe.
			r.record(name, Halt, attempt)
			fmt.Fprintf(r.Out, "✗ cannot continue after %s; exiting\n", name)
			r.exit(1)
			return ErrHalted
		}
	}
}

// printDescription shows the step's description once, before execution.
func (r *Runner) printDescription(step Step) {
	desc := step.Description()
	if strings.TrimSpace(desc) == "" {
		return
	}
	if r.Render != nil {
		desc = r.Render(desc)
	}
	fmt.Fprintf(r.Out, "\n%s\n\n", strings.TrimRight(desc, "\n"))
}

// record appends an attempt-terminating transition to the transcript.
// Transcript failures never derail a run; they are reported and ignored.
func (r *Runner) record(step string, t Transition, attempt int) {
	if r.Transcript == nil {
		return
	}
	if err := r.Transcript.Write(step, t, attempt); err != nil {
		fmt.Fprintf(r.Out, "warning: transcript: %v\n", err)
	}
}

func (r *Runner) exit(code int) {
	if r.Exit != nil {
		r.Exit(code)
		return
	}
	os.Exit(code)
}

// SetVar stores a captured value in the runner's variable scope.
func (r *Runner) SetVar(name, value string) {
	if r.Vars == nil {
		r.Vars = make(map[string]string)
	}
	r.Vars[name] = value
}

// Var looks up a captured value.
func (r *Runner) Var(name string) (string, bool) {
	v, ok := r.Vars[name]
	return v, ok
}
