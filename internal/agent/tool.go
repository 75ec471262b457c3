package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Tool is a function the model may call by name with JSON arguments.
type Tool interface {
	Name() string
	Description() string
	// Schema is the JSON schema of the arguments object.
	Schema() []byte
	Call(ctx context.Context, input json.RawMessage) (string, error)
}

const addSchema = `{
  "type": "object",
  "properties": {
    "num1": {"description": "The first number to add", "type": ["string", "integer"]},
    "num2": {"description": "The second number to add", "type": ["string", "integer"]}
  },
  "required": ["num1", "num2"]
}`

// AddTool adds two integers. Arguments may be decimal strings or JSON integers.
type AddTool struct{}

func (AddTool) Name() string        { return "Add" }
func (AddTool) Description() string { return "useful for adding numbers together" }
func (AddTool) Schema() []byte      { return []byte(addSchema) }

func (AddTool) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Num1 json.RawMessage `json:"num1"`
		Num2 json.RawMessage `json:"num2"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	a, err := toInteger("num1", args.Num1)
	if err != nil {
		return "", err
	}
	b, err := toInteger("num2", args.Num2)
	if err != nil {
		return "", err
	}

	return new(big.Int).Add(a, b).String(), nil
}

func toInteger(field string, raw json.RawMessage) (*big.Int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil, fmt.Errorf("%s is required", field)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}

	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("invalid literal for %s: %q is not an integer", field, text)
	}
	return n, nil
}
