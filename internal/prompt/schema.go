package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/fpt/deskpilot/pkg/agent/action"
)

// responseShape documents the reply object for schema reflection only.
// Decoding goes through action.Validate.
type responseShape struct {
	Action    string `json:"action" jsonschema:"required,description=The operation to perform"`
	Content   any    `json:"content" jsonschema:"required,oneof_type=string;array,description=Operation argument; its type depends on action"`
	Reasoning string `json:"reasoning" jsonschema:"required,description=Purpose of this step and the plan for the next"`
}

// ResponseSchema returns the indented JSON Schema of the reply object with
// the action enum filled from action.Kinds.
func ResponseSchema() (string, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	schema := reflector.Reflect(&responseShape{})
	schema.Version = ""

	if prop, ok := schema.Properties.Get("action"); ok {
		prop.Enum = make([]any, 0, len(action.Kinds))
		for _, k := range action.Kinds {
			prop.Enum = append(prop.Enum, string(k))
		}
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response schema: %w", err)
	}
	return string(data), nil
}

func kindNames() []string {
	names := make([]string, len(action.Kinds))
	for i, k := range action.Kinds {
		names[i] = string(k)
	}
	return names
}

var templateFuncs = map[string]any{
	"join": strings.Join,
}
