package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from
// the wire-level task-list structs using invopop/jsonschema. The
// condition and parameter unions are validated separately by the domain
// phase, so they appear as open objects here.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&TaskListDoc{})
	s.ID = "https://github.com/tactcli/tact/schemas/tasklist-v0.json"
	s.Title = "Task List v0"
	s.Description = "Schema for tact task-list documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
