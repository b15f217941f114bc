package library

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guidedops/playbook/pkg/engine"
	"github.com/guidedops/playbook/pkg/lineedit"
	"github.com/guidedops/playbook/pkg/schema"
)

func testRunner(lines ...string) (*engine.Runner, *bytes.Buffer, *[]int) {
	out := &bytes.Buffer{}
	exits := &[]int{}
	r := engine.NewRunner()
	r.Out = out
	r.Exit = func(code int) { *exits = append(*exits, code) }
	r.Editor = lineedit.NewScript(lines...)
	return r, out, exits
}

func mustBuild(t *testing.T, doc string) engine.Step {
	t.Helper()
	pb, err := schema.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	step, err := Build(pb)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return step
}

func TestBuildRunsDocumentSteps(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: hello
    type: message
    description: First message.
  - id: go_ahead
    type: confirm
  - id: env_name
    type: input
    prompt: "env: "
    capture: env
`)
	r, out, exits := testRunner("y", "staging")
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(*exits) != 0 {
		t.Fatalf("unexpected exits: %v", *exits)
	}
	if !strings.Contains(out.String(), "First message.") {
		t.Error("message description not shown")
	}
	if v, ok := r.Var("env"); !ok || v != "staging" {
		t.Errorf("capture env = %q, %v", v, ok)
	}
}

func TestBuildInputPatternRetries(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: version
    type: input
    pattern: '^v[0-9]+$'
    capture: version
`)
	r, out, _ := testRunner("nope", "also nope", "v3")
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(out.String(), "re-trying version"); got != 2 {
		t.Errorf("retry notices = %d, want 2\noutput:\n%s", got, out.String())
	}
	if v, _ := r.Var("version"); v != "v3" {
		t.Errorf("capture version = %q", v)
	}
}

func TestBuildPathStepCaptures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "deploy.yaml")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: config
    type: path
    capture: config_path
`)
	r, _, _ := testRunner(file)
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if v, _ := r.Var("config_path"); v != file {
		t.Errorf("capture config_path = %q, want %q", v, file)
	}
}

func TestBuildConfirmNoHalts(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: first
    type: confirm
  - id: second
    type: message
    description: Should never appear.
`)
	r, out, exits := testRunner("n")
	err := r.Run(step)
	if err == nil {
		t.Fatal("expected error after halt inside composite")
	}
	if len(*exits) != 1 || (*exits)[0] == 0 {
		t.Fatalf("exits = %v, want one non-zero", *exits)
	}
	if strings.Contains(out.String(), "Should never appear.") {
		t.Error("second step ran after halt")
	}
}

func TestBuildWhenGuardSkips(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
  vars:
    env: staging
steps:
  - id: prod_gate
    type: confirm
    when: env == "prod"
  - id: done
    type: message
    description: All finished.
`)
	// No input scripted: the confirm must be skipped, not prompted.
	r, out, _ := testRunner()
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "⊘ skipping prod_gate") {
		t.Errorf("missing skip notice:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "All finished.") {
		t.Error("trailing step did not run")
	}
}

func TestBuildWhenGuardMatchesCapture(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: env_name
    type: input
    capture: env
  - id: prod_gate
    type: confirm
    when: env == "prod"
`)
	r, out, _ := testRunner("prod", "y")
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.String(), "skipping") {
		t.Errorf("guard skipped despite matching capture:\n%s", out.String())
	}
}

func TestBuildWhenUndefinedVariableSkips(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: gated
    type: message
    description: Gated message.
    when: missing == "yes"
`)
	r, out, _ := testRunner()
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "skipping gated") {
		t.Errorf("expected skip on undefined variable:\n%s", out.String())
	}
}

func TestBuildMetaVarsDoNotClobberExisting(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
  vars:
    env: staging
steps:
  - id: note
    type: message
    description: noop
`)
	r, _, _ := testRunner()
	r.SetVar("env", "prod")
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if v, _ := r.Var("env"); v != "prod" {
		t.Errorf("env = %q, pre-set value was overwritten", v)
	}
}

func TestBuildStepNamesUseDocumentIDs(t *testing.T) {
	step := mustBuild(t, `apiVersion: playbook/v0
meta:
  name: demo
steps:
  - id: approval
    type: confirm
`)
	r, out, _ := testRunner("bogus", "y")
	if err := r.Run(step); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "re-trying approval") {
		t.Errorf("retry notice does not use step id:\n%s", out.String())
	}
}

func TestBuildRejectsUnknownType(t *testing.T) {
	pb := &schema.Playbook{
		APIVersion: "playbook/v0",
		Meta:       schema.Meta{Name: "demo"},
		Steps:      []schema.Step{{ID: "s1", Type: "shell"}},
	}
	if _, err := Build(pb); err == nil || !strings.Contains(err.Error(), "unknown step type") {
		t.Errorf("expected unknown type error, got %v", err)
	}
}
