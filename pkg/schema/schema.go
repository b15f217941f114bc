// Package schema defines the Go struct types for the playbook YAML
// document and provides strict parsing, JSON Schema generation, and the
// validation pipeline.
package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Playbook is the top-level document defining a guided procedure.
type Playbook struct {
	APIVersion string `yaml:"apiVersion" json:"apiVersion" jsonschema:"required,enum=playbook/v0"`
	Meta       Meta   `yaml:"meta"       json:"meta"       jsonschema:"required"`
	Steps      []Step `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Meta contains playbook metadata and initial variables.
type Meta struct {
	Name        string            `yaml:"name"                  json:"name" jsonschema:"required"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Vars        map[string]string `yaml:"vars,omitempty"        json:"vars,omitempty"`
}

// Step is one unit of guided work in a playbook document.
//
// Types:
//   - message — display the description and continue
//   - confirm — pause for a y/n answer
//   - input   — collect one line of text, optionally matched against pattern
//   - path    — collect an existing filesystem path with tab completion
type Step struct {
	ID          string `yaml:"id"                    json:"id"    jsonschema:"required,pattern=^[a-z0-9][a-z0-9_-]*$"`
	Title       string `yaml:"title,omitempty"       json:"title,omitempty"`
	Type        string `yaml:"type"                  json:"type"  jsonschema:"required,enum=message,enum=confirm,enum=input,enum=path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Prompt overrides the input cursor text for interactive types.
	Prompt string `yaml:"prompt,omitempty" json:"prompt,omitempty"`

	// When guards the step with an expr condition over the variable
	// scope; a false result skips the step.
	When string `yaml:"when,omitempty" json:"when,omitempty"`

	// Capture names the variable that receives the accepted response
	// (input and path types only).
	Capture string `yaml:"capture,omitempty" json:"capture,omitempty"`

	// Pattern is a regular expression the response must match (input
	// type only); non-matching input re-prompts.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// LoadFile reads and parses a playbook YAML file with strict
// unknown-field rejection.
func LoadFile(path string) (*Playbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playbook: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a playbook from an io.Reader with strict unknown-field
// rejection.
func Load(r io.Reader) (*Playbook, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var pb Playbook
	if err := dec.Decode(&pb); err != nil {
		return nil, fmt.Errorf("decode playbook: %w", err)
	}
	return &pb, nil
}
