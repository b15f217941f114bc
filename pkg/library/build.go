package library

import (
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"

	"github.com/guidedops/playbook/pkg/engine"
	"github.com/guidedops/playbook/pkg/schema"
)

// Build converts a validated playbook document into a runnable step
// tree: one serial composite whose children mirror the document's
// steps. Initial variables from meta.vars are applied by the returned
// root step's first execution.
func Build(pb *schema.Playbook) (engine.Step, error) {
	children := make([]engine.Step, 0, len(pb.Steps))
	for i, st := range pb.Steps {
		step, err := buildStep(st)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, st.ID, err)
		}
		step = &namedStep{wrap: wrap{Step: step}, name: st.ID}
		if st.When != "" {
			step = &guardedStep{inner: step, name: st.ID, cond: st.When}
		}
		children = append(children, step)
	}

	serial := engine.Serial(pb.Meta.Description, children...)
	root := &rootStep{
		wrap: wrap{Step: serial},
		name: pb.Meta.Name,
		vars: pb.Meta.Vars,
	}
	return root, nil
}

func buildStep(st schema.Step) (engine.Step, error) {
	desc := st.Description
	if desc == "" {
		desc = st.Title
	}

	switch st.Type {
	case "message":
		return &engine.Message{Text: desc}, nil

	case "confirm":
		c := engine.NewConfirm(desc)
		if st.Prompt != "" {
			c.Prompt = st.Prompt
		}
		return c, nil

	case "input":
		var re *regexp.Regexp
		if st.Pattern != "" {
			var err error
			re, err = regexp.Compile(st.Pattern)
			if err != nil {
				return nil, fmt.Errorf("compile pattern: %w", err)
			}
		}
		var pending string
		in := engine.NewInputStep(desc, st.Prompt, func(response string) (engine.Transition, error) {
			if re != nil && !re.MatchString(response) {
				return engine.Retry, nil
			}
			pending = response
			return engine.Continue, nil
		})
		return withCapture(in, st.Capture, &pending), nil

	case "path":
		var pending string
		p := engine.NewPathStep(desc, st.Prompt, func(path string) (engine.Transition, error) {
			pending = path
			return engine.Continue, nil
		})
		return withCapture(p, st.Capture, &pending), nil

	default:
		return nil, fmt.Errorf("unknown step type %q", st.Type)
	}
}

func withCapture(step engine.Step, name string, pending *string) engine.Step {
	if name == "" {
		return step
	}
	return &captureStep{wrap: wrap{Step: step}, varName: name, pending: pending}
}

// wrap forwards the optional lifecycle methods of the wrapped step so
// that decorating a step never strips its Prepare/Cleanup behavior.
type wrap struct {
	engine.Step
}

func (w *wrap) Prepare(r *engine.Runner) error {
	if p, ok := w.Step.(engine.Preparer); ok {
		return p.Prepare(r)
	}
	return nil
}

func (w *wrap) Cleanup(r *engine.Runner) error {
	if c, ok := w.Step.(engine.Cleaner); ok {
		return c.Cleanup(r)
	}
	return nil
}

// namedStep makes runner notices use the document step id instead of
// the Go type name.
type namedStep struct {
	wrap
	name string
}

func (n *namedStep) Name() string { return n.name }

// captureStep stores the accepted response in the runner's variable
// scope after the wrapped step continues.
type captureStep struct {
	wrap
	varName string
	pending *string
}

func (c *captureStep) Execute(r *engine.Runner) (engine.Transition, error) {
	t, err := c.wrap.Step.Execute(r)
	if t == engine.Continue && err == nil {
		r.SetVar(c.varName, *c.pending)
	}
	return t, err
}

// guardedStep evaluates a when condition against the runner's variable
// scope; a false result skips the inner step entirely, so its
// description, hooks, and prompt never fire. A true result runs the
// inner step through the full lifecycle.
type guardedStep struct {
	inner engine.Step
	name  string
	cond  string
}

func (g *guardedStep) Name() string { return g.name }

func (g *guardedStep) Description() string { return "" }

func (g *guardedStep) Execute(r *engine.Runner) (engine.Transition, error) {
	matched, err := evalCondition(g.cond, r.Vars)
	if err != nil {
		return engine.Halt, fmt.Errorf("when %q: %w", g.cond, err)
	}
	if !matched {
		fmt.Fprintf(r.Out, "⊘ skipping %s\n", g.name)
		return engine.Continue, nil
	}
	if err := r.Run(g.inner); err != nil {
		return engine.Halt, err
	}
	return engine.Continue, nil
}

// evalCondition evaluates a condition expression using expr-lang over
// the captured variable scope. Undefined variables evaluate to nil
// rather than failing, so guards can reference captures that earlier
// skipped steps never set.
func evalCondition(cond string, vars map[string]string) (bool, error) {
	env := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		env[k] = v
	}
	program, err := expr.Compile(cond, expr.Env(env), expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return false, fmt.Errorf("compile condition: %w", err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval condition: %w", err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition did not return bool (got %T)", output)
	}
	return result, nil
}

// rootStep seeds meta.vars into the runner before the serial body runs.
type rootStep struct {
	wrap
	name string
	vars map[string]string
}

func (s *rootStep) Name() string { return s.name }

func (s *rootStep) Execute(r *engine.Runner) (engine.Transition, error) {
	for k, v := range s.vars {
		if _, set := r.Var(k); !set {
			r.SetVar(k, v)
		}
	}
	return s.wrap.Step.Execute(r)
}
