package engine

import "reflect"

// Step is a single unit of guided operator work.
//
// Description returns free-form, possibly multi-paragraph markdown shown
// once before each execution attempt. Execute performs the work and
// returns the transition that decides whether the run proceeds, repeats
// this step, or halts. A non-nil error is fatal and propagates uncaught.
type Step interface {
	Description() string
	Execute(r *Runner) (Transition, error)
}

// Preparer is implemented by steps that need per-attempt setup.
// Prepare runs before every execution attempt, including retries, so it
// must be safe to call repeatedly.
type Preparer interface {
	Prepare(r *Runner) error
}

// Cleaner is implemented by steps that need to undo Prepare's side
// effects. Cleanup runs after a Continue outcome only — never on the
// halt path.
type Cleaner interface {
	Cleanup(r *Runner) error
}

// namer lets a step override the name used in runner notices.
type namer interface {
	Name() string
}

// StepName returns a short human-visible name for a step, used in
// retry and halt notices. Steps may provide an explicit Name method;
// otherwise the name is derived from the step's Go type.
func StepName(s Step) string {
	if n, ok := s.(namer); ok && n.Name() != "" {
		return n.Name()
	}
	t := reflect.TypeOf(s)
	if t == nil {
		return "step"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "step"
	}
	return t.Name()
}

// Message is a display-only step: it shows its description and continues.
type Message struct {
	Text string
}

func (m *Message) Description() string { return m.Text }

func (m *Message) Execute(*Runner) (Transition, error) { return Continue, nil }

// Func adapts a bare function into a Step.
type Func struct {
	Desc string
	Fn   func(r *Runner) (Transition, error)
}

func (f *Func) Description() string { return f.Desc }

func (f *Func) Execute(r *Runner) (Transition, error) { return f.Fn(r) }
