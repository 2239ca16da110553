package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single configuration error with location
// context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "tasks[0].variants[1].condition.end")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// HasErrors reports whether any entry carries error severity (warnings
// alone leave a document usable).
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity != "warning" {
			return true
		}
	}
	return false
}

// ValidateFile performs the full 3-phase validation pipeline on a task file.
// Phase 1: Structural (format decode + strict field mapping)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (union construction and custom Go rules)
func ValidateFile(path string) (*TaskList, []*ValidationError) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, []*ValidationError{structuralError(err)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []*ValidationError{structuralError(fmt.Errorf("read task file: %w", err))}
	}
	return Validate(data, format)
}

// Validate runs the 3-phase pipeline on raw document bytes.
func Validate(data []byte, format Format) (*TaskList, []*ValidationError) {
	var allErrors []*ValidationError

	// Phase 1: Structural — format decode plus strict mapstructure pass.
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, []*ValidationError{structuralError(err)}
	}
	doc, err := decodeDoc(raw)
	if err != nil {
		return nil, []*ValidationError{structuralError(err)}
	}

	// Phase 2: Semantic — JSON Schema validation of the wire document.
	allErrors = append(allErrors, validateSemantic(doc)...)

	// Phase 3: Domain — union construction and custom rules.
	list, domainErrs := Build(doc)
	allErrors = append(allErrors, domainErrs...)

	if HasErrors(allErrors) {
		return nil, allErrors
	}
	return list, allErrors
}

func structuralError(err error) *ValidationError {
	return &ValidationError{
		Phase:    "structural",
		Message:  err.Error(),
		Severity: "error",
	}
}

// validateSemantic validates the wire document against the generated
// JSON Schema.
func validateSemantic(doc *TaskListDoc) []*ValidationError {
	semanticError := func(msg string) []*ValidationError {
		return []*ValidationError{{Phase: "semantic", Message: msg, Severity: "error"}}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return semanticError(fmt.Sprintf("marshal for schema validation: %v", err))
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return semanticError(fmt.Sprintf("generate schema: %v", err))
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return semanticError(fmt.Sprintf("unmarshal schema: %v", err))
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("tasklist-v0.json", schemaDoc); err != nil {
		return semanticError(fmt.Sprintf("add schema resource: %v", err))
	}
	sch, err := c.Compile("tasklist-v0.json")
	if err != nil {
		return semanticError(fmt.Sprintf("compile schema: %v", err))
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return semanticError(fmt.Sprintf("unmarshal document: %v", err))
	}

	if err := sch.Validate(document); err != nil {
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
			errs = semanticError(err.Error())
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
