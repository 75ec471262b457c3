package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// CompileSchema compiles a JSON schema payload registered under an in-memory id.
func CompileSchema(id string, schema []byte) (*jsonschema.Schema, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("schema is empty")
	}
	resourceID := schemaID(id)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceID, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceID)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// ValidateJSON decodes raw and validates it against schema, returning the decoded value.
func ValidateJSON(schema *jsonschema.Schema, raw []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return payload, nil
}

func schemaID(id string) string {
	if id == "" {
		id = "schema"
	}
	return "inmemory://" + id
}
