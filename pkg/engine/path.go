package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathStep prompts for a filesystem path. The response has a leading
// home-directory shorthand expanded and must name an existing path;
// a missing path is fatal. On success the resolved path is handed to
// the required AcceptPath hook.
//
// Tab completion globs the typed prefix with a trailing wildcard and
// re-substitutes "~" into results so candidates match the shorthand the
// operator typed. Candidates are cached per exact typed prefix; Prepare
// re-arms a fresh cache each attempt.
type PathStep struct {
	InputStep
	AcceptPath func(path string) (Transition, error)

	cachedPrefix string
	cached       []string
	hasCache     bool
}

// NewPathStep builds a path-prompt step around an accept-path hook.
func NewPathStep(description, prompt string, acceptPath func(string) (Transition, error)) *PathStep {
	p := &PathStep{AcceptPath: acceptPath}
	p.Desc = description
	if p.Desc == "" {
		p.Desc = "Please enter a filesystem path to proceed."
	}
	p.Prompt = prompt
	if p.Prompt == "" {
		p.Prompt = "path: "
	}
	p.Accept = p.accept
	p.Complete = p.complete
	return p
}

// Prepare discards any completion cache from a prior attempt before
// installing the hook.
func (p *PathStep) Prepare(r *Runner) error {
	p.hasCache = false
	p.cached = nil
	p.cachedPrefix = ""
	return p.InputStep.Prepare(r)
}

func (p *PathStep) accept(response string) (Transition, error) {
	path, err := ExpandHome(response)
	if err != nil {
		return Halt, err
	}
	if _, err := os.Stat(path); err != nil {
		return Halt, fmt.Errorf("path %q: %w", response, err)
	}
	if p.AcceptPath == nil {
		return Halt, fmt.Errorf("path step has no accept-path hook")
	}
	return p.AcceptPath(path)
}

func (p *PathStep) complete(prefix string, index int) (string, bool) {
	if !p.hasCache || prefix != p.cachedPrefix {
		p.cached = globCandidates(prefix)
		p.cachedPrefix = prefix
		p.hasCache = true
	}
	if index < len(p.cached) {
		return p.cached[index], true
	}
	return "", false
}

// globCandidates expands the typed prefix and globs it with a trailing
// wildcard. Results keep the "~" shorthand when the operator typed one.
func globCandidates(prefix string) []string {
	expanded, err := ExpandHome(prefix)
	if err != nil {
		return nil
	}
	matches, err := filepath.Glob(expanded + "*")
	if err != nil || len(matches) == 0 {
		return nil
	}
	tilde := strings.HasPrefix(prefix, "~")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if tilde {
			m = ContractHome(m)
		}
		out = append(out, m)
	}
	return out
}

// ExpandHome replaces a leading "~" or "~/" with the user's home
// directory. Paths without the shorthand pass through unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// Plain concatenation preserves a trailing separator, which matters
	// for completion prefixes like "~/dir/".
	return home + path[1:], nil
}

// ContractHome is the inverse of ExpandHome: a path under the home
// directory is rewritten with the "~" shorthand.
func ContractHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}
