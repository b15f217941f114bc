package engine

import "strings"

var confirmChoices = []string{"y", "n"}

// Confirm pauses until the operator answers. "y" continues the run,
// "n" halts it, anything else is invalid input and re-prompts.
type Confirm struct {
	InputStep
}

// NewConfirm builds a confirm step. An empty description gets a default.
func NewConfirm(description string) *Confirm {
	c := &Confirm{InputStep: InputStep{
		Desc:   description,
		Prompt: "continue? (y|n) ",
	}}
	if c.Desc == "" {
		c.Desc = "Pausing until you wish to continue."
	}
	c.Accept = c.accept
	c.Complete = c.complete
	return c
}

func (c *Confirm) accept(response string) (Transition, error) {
	switch response {
	case "y":
		return Continue, nil
	case "n":
		return Halt, nil
	}
	// Unrecognized text is not an error — ask again.
	return Retry, nil
}

// complete offers y/n filtered by prefix. Typed text that already equals
// a choice short-circuits to that single candidate at index 0.
func (c *Confirm) complete(prefix string, index int) (string, bool) {
	var candidates []string
	for _, choice := range confirmChoices {
		if prefix == choice {
			candidates = []string{choice}
			break
		}
		if strings.HasPrefix(choice, prefix) {
			candidates = append(candidates, choice)
		}
	}
	if index < len(candidates) {
		return candidates[index], true
	}
	return "", false
}
