// Package engine implements the playbook execution core: the step
// lifecycle (prepare → execute → cleanup), the three-way continuation
// state machine, and serial composition of steps.
package engine

// Transition is the outcome of a step's execution and drives the
// runner's continuation logic.
type Transition string

const (
	// Continue moves on to the next step.
	Continue Transition = "continue"
	// Retry re-runs the same step instance, starting from Prepare.
	Retry Transition = "retry"
	// Halt stops the run and exits the process with a non-zero status.
	Halt Transition = "halt"
)

// Valid reports whether t is one of the three defined transitions.
// The runner treats anything invalid as Halt — never silently continue.
func (t Transition) Valid() bool {
	switch t {
	case Continue, Retry, Halt:
		return true
	}
	return false
}
