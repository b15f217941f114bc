package lineedit

import (
	"strings"

	"github.com/guidedops/playbook/pkg/engine"
)

// hookCompleter adapts the engine's (prefix, index) completion protocol
// to readline's AutoCompleter. The hook is mutable so interactive steps
// can install and remove it around execution without rebuilding the
// readline instance.
type hookCompleter struct {
	fn engine.CompletionFunc
}

// Do drains the hook for the text left of the cursor and returns the
// candidate suffixes readline expects, paired with the prefix length.
func (c *hookCompleter) Do(line []rune, pos int) ([][]rune, int) {
	if c.fn == nil {
		return nil, 0
	}
	prefix := string(line[:pos])

	var out [][]rune
	for i := 0; ; i++ {
		cand, ok := c.fn(prefix, i)
		if !ok {
			break
		}
		// Readline wants the text remaining after the typed prefix; a
		// candidate that doesn't extend the prefix contributes nothing.
		if !strings.HasPrefix(cand, prefix) {
			continue
		}
		out = append(out, []rune(cand)[pos:])
	}
	return out, pos
}
