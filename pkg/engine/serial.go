package engine

// SerialStep chains an ordered sequence of steps into one logical unit.
// Each child gets its own full prepare/execute/retry/cleanup cycle via
// the runner; the first non-Continue child outcome stops the sequence.
// The sequence is fixed at construction.
type SerialStep struct {
	desc  string
	steps []Step
}

// Serial builds a step that runs the given steps in order. An empty
// sequence is valid and completes immediately.
func Serial(description string, steps ...Step) *SerialStep {
	return &SerialStep{desc: description, steps: steps}
}

func (s *SerialStep) Description() string { return s.desc }

// Len returns the number of child steps.
func (s *SerialStep) Len() int { return len(s.steps) }

// Execute runs each child through the runner. A child that halts never
// returns control here — the runner's halt path terminates the process.
// A child error propagates; if every child continues, so does the
// composite.
func (s *SerialStep) Execute(r *Runner) (Transition, error) {
	for _, child := range s.steps {
		if err := r.Run(child); err != nil {
			return Halt, err
		}
	}
	return Continue, nil
}
