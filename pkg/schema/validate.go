package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "steps[0].pattern")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// APIVersion accepted by this engine.
const APIVersion = "playbook/v0"

var captureNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateFile performs the full 3-phase validation pipeline on a playbook file.
// Phase 1: Structural (strict YAML decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (custom Go rules)
func ValidateFile(path string) (*Playbook, []*ValidationError) {
	var allErrors []*ValidationError

	// Phase 1: Structural — strict YAML decode
	pb, err := LoadFile(path)
	if err != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "structural",
			Path:     "",
			Message:  err.Error(),
			Severity: "error",
		})
		return nil, allErrors
	}

	// Phase 2: Semantic — JSON Schema validation
	allErrors = append(allErrors, validateSemantic(pb)...)

	// Phase 3: Domain — custom Go rules
	allErrors = append(allErrors, ValidateDomain(pb)...)

	if len(allErrors) > 0 {
		return pb, allErrors
	}
	return pb, nil
}

// validateSemantic validates the playbook against the JSON Schema.
func validateSemantic(pb *Playbook) []*ValidationError {
	semErr := func(msg string) []*ValidationError {
		return []*ValidationError{{
			Phase:    "semantic",
			Path:     "",
			Message:  msg,
			Severity: "error",
		}}
	}

	data, err := json.Marshal(pb)
	if err != nil {
		return semErr(fmt.Sprintf("marshal for schema validation: %v", err))
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return semErr(fmt.Sprintf("generate schema: %v", err))
	}

	var schemaDoc interface{}
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return semErr(fmt.Sprintf("unmarshal schema: %v", err))
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("playbook-v0.json", schemaDoc); err != nil {
		return semErr(fmt.Sprintf("add schema resource: %v", err))
	}

	sch, err := c.Compile("playbook-v0.json")
	if err != nil {
		return semErr(fmt.Sprintf("compile schema: %v", err))
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return semErr(fmt.Sprintf("unmarshal document: %v", err))
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, &ValidationError{
					Phase:    "semantic",
					Path:     strings.Join(cause.InstanceLocation, "/"),
					Message:  fmt.Sprintf("%v", cause.ErrorKind),
					Severity: "error",
				})
			}
		} else {
			errs = append(errs, &ValidationError{
				Phase:    "semantic",
				Path:     "",
				Message:  err.Error(),
				Severity: "error",
			})
		}
		return errs
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateDomain performs Phase 3 domain-level validation.
// Returns a slice of errors; empty means valid.
func ValidateDomain(pb *Playbook) []*ValidationError {
	var errs []*ValidationError

	if pb.APIVersion != APIVersion {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     "apiVersion",
			Message:  fmt.Sprintf("unrecognized apiVersion %q, expected %q", pb.APIVersion, APIVersion),
			Severity: "error",
		})
	}

	if pb.Meta.Name == "" {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     "meta.name",
			Message:  "meta.name is required",
			Severity: "error",
		})
	}

	if len(pb.Steps) == 0 {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     "steps",
			Message:  "playbook has no steps",
			Severity: "warning",
		})
	}

	validTypes := map[string]bool{"message": true, "confirm": true, "input": true, "path": true}
	seen := make(map[string]int)

	for i, st := range pb.Steps {
		loc := fmt.Sprintf("steps[%d]", i)

		if st.ID == "" {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     loc + ".id",
				Message:  "step id must not be empty",
				Severity: "error",
			})
		} else if prev, dup := seen[st.ID]; dup {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     loc + ".id",
				Message:  fmt.Sprintf("duplicate step id %q (first used by steps[%d])", st.ID, prev),
				Severity: "error",
			})
		} else {
			seen[st.ID] = i
		}

		if !validTypes[st.Type] {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     loc + ".type",
				Message:  fmt.Sprintf("unknown step type %q, expected one of message, confirm, input, path", st.Type),
				Severity: "error",
			})
		}

		if st.Type == "message" && st.Prompt != "" {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     loc + ".prompt",
				Message:  "prompt has no effect on a message step",
				Severity: "warning",
			})
		}

		if st.Capture != "" {
			if st.Type != "input" && st.Type != "path" {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     loc + ".capture",
					Message:  fmt.Sprintf("capture is only valid on input and path steps, not %q", st.Type),
					Severity: "error",
				})
			} else if !captureNameRe.MatchString(st.Capture) {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     loc + ".capture",
					Message:  fmt.Sprintf("capture name %q is not a valid identifier", st.Capture),
					Severity: "error",
				})
			}
		}

		if st.Pattern != "" {
			if st.Type != "input" {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     loc + ".pattern",
					Message:  fmt.Sprintf("pattern is only valid on input steps, not %q", st.Type),
					Severity: "error",
				})
			} else if _, err := regexp.Compile(st.Pattern); err != nil {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     loc + ".pattern",
					Message:  fmt.Sprintf("invalid pattern: %v", err),
					Severity: "error",
				})
			}
		}

		if st.When != "" {
			if _, err := expr.Compile(st.When, expr.AsBool(), expr.AllowUndefinedVariables()); err != nil {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     loc + ".when",
					Message:  fmt.Sprintf("invalid when condition: %v", err),
					Severity: "error",
				})
			}
		}
	}

	return errs
}
