package lineedit

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/guidedops/playbook/pkg/engine"
)

// fixedHook offers a fixed candidate list filtered by prefix.
func fixedHook(candidates ...string) engine.CompletionFunc {
	return func(prefix string, index int) (string, bool) {
		var matched []string
		for _, c := range candidates {
			if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
				matched = append(matched, c)
			}
		}
		if index < len(matched) {
			return matched[index], true
		}
		return "", false
	}
}

func TestHookCompleterReturnsSuffixes(t *testing.T) {
	c := &hookCompleter{fn: fixedHook("y", "n")}

	got, length := c.Do([]rune(""), 0)
	if length != 0 {
		t.Errorf("length = %d, want 0", length)
	}
	if len(got) != 2 || string(got[0]) != "y" || string(got[1]) != "n" {
		t.Errorf("candidates = %q, want [y n]", got)
	}
}

func TestHookCompleterTrimsTypedPrefix(t *testing.T) {
	c := &hookCompleter{fn: fixedHook("help", "history")}

	line := []rune("he")
	got, length := c.Do(line, len(line))
	if length != 2 {
		t.Errorf("length = %d, want 2", length)
	}
	if len(got) != 2 || string(got[0]) != "lp" || string(got[1]) != "story" {
		t.Errorf("suffixes = %q, want [lp story]", got)
	}
}

func TestHookCompleterExactMatchYieldsEmptySuffix(t *testing.T) {
	c := &hookCompleter{fn: fixedHook("y")}

	line := []rune("y")
	got, _ := c.Do(line, len(line))
	if len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("exact match suffixes = %q, want one empty suffix", got)
	}
}

func TestHookCompleterMultibytePrefix(t *testing.T) {
	c := &hookCompleter{fn: func(prefix string, index int) (string, bool) {
		if index == 0 {
			return "héllo", true
		}
		return "", false
	}}

	line := []rune("hé")
	got, length := c.Do(line, len(line))
	if length != 2 {
		t.Errorf("length = %d, want 2 runes", length)
	}
	if len(got) != 1 || string(got[0]) != "llo" {
		t.Errorf("suffixes = %q, want [llo]", got)
	}
}

func TestHookCompleterSkipsNonExtendingCandidates(t *testing.T) {
	c := &hookCompleter{fn: func(prefix string, index int) (string, bool) {
		// A misbehaving hook offering a candidate unrelated to the prefix.
		if index == 0 {
			return "other", true
		}
		return "", false
	}}

	line := []rune("xy")
	got, _ := c.Do(line, len(line))
	if len(got) != 0 {
		t.Errorf("candidates = %q, want none", got)
	}
}

func TestHookCompleterNilHook(t *testing.T) {
	c := &hookCompleter{}
	got, length := c.Do([]rune("abc"), 3)
	if got != nil || length != 0 {
		t.Errorf("Do with nil hook = %q/%d, want nil/0", got, length)
	}
}

func TestScriptEndOfInput(t *testing.T) {
	s := NewScript("one")

	line, err := s.ReadLine("> ")
	if err != nil || line != "one" {
		t.Fatalf("ReadLine = %q/%v", line, err)
	}
	if _, err := s.ReadLine("> "); err != io.EOF {
		t.Errorf("exhausted script error = %v, want io.EOF", err)
	}
	if len(s.Prompts) != 2 {
		t.Errorf("prompts recorded = %d, want 2", len(s.Prompts))
	}
}

func TestDefaultHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got, want := DefaultHistoryPath(), filepath.Join(home, ".playbook_history"); got != want {
		t.Errorf("DefaultHistoryPath = %q, want %q", got, want)
	}
}
