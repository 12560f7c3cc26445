package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// receiptSchema returns the JSON-Schema the service's receipt response must
// satisfy, as a generic map. It is also handed to providers that support
// structured output constraints.
func receiptSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount":      map[string]any{"type": "number", "minimum": 0.0},
			"currency":    map[string]any{"type": "string"},
			"date":        map[string]any{"type": "string"},
			"vendor":      map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"amount", "currency", "date", "vendor", "category", "description"},
	}
}

// formFieldsSchema returns the JSON-Schema for the form field mapping
// response: five required field identifier strings.
func formFieldsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount":      map[string]any{"type": "string"},
			"date":        map[string]any{"type": "string"},
			"vendor":      map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"amount", "date", "vendor", "category", "description"},
	}
}

// validateAgainstSchema validates "data" against "schemaMap".
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
