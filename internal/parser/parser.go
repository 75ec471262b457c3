// Package parser turns free-form model output into typed records validated by a JSON schema.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidOutput = errors.New("invalid model output")

var fencePrefix = regexp.MustCompile("^```\\w*\\n?")

type Parser[T any] struct {
	name     string
	schema   []byte
	compiled *jsonschema.Schema
}

func New[T any](name string, schema []byte) (*Parser[T], error) {
	compiled, err := CompileSchema(name, schema)
	if err != nil {
		return nil, fmt.Errorf("parser %s: %w", name, err)
	}
	return &Parser[T]{name: name, schema: schema, compiled: compiled}, nil
}

// FormatInstructions is the text embedded in a prompt to ask for output matching the schema.
func (p *Parser[T]) FormatInstructions() string {
	var sb strings.Builder
	sb.WriteString("The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n")
	sb.WriteString(`As an example, for the schema {"properties": {"foo": {"title": "Foo", "description": "a list of strings", "type": "array", "items": {"type": "string"}}}, "required": ["foo"]}`)
	sb.WriteString("\n")
	sb.WriteString(`the object {"foo": ["bar", "baz"]} is a well-formatted instance of the schema. The object {"properties": {"foo": ["bar", "baz"]}} is not well-formatted.`)
	sb.WriteString("\n\nHere is the output schema:\n```\n")
	sb.Write(p.schema)
	sb.WriteString("\n```")
	return sb.String()
}

func (p *Parser[T]) Parse(text string) (T, error) {
	var out T

	raw, err := ExtractJSON(text)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	payload, err := ValidateJSON(p.compiled, []byte(raw))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	// re-encoding the validated value writes integral numbers like 42.0 as 42
	normalized, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if err := json.Unmarshal(normalized, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return out, nil
}

// ExtractJSON returns the first complete JSON object in text, ignoring markdown fences and
// any prose around it.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = fencePrefix.ReplaceAllString(text, "")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	obj, _, err := firstObject(text)
	return obj, err
}

// JSONObjects returns every top-level JSON object in text, in order.
func JSONObjects(text string) []string {
	var objects []string
	for {
		start := strings.Index(text, "{")
		if start < 0 {
			return objects
		}
		obj, end, err := firstObject(text)
		if err != nil {
			// an unclosed brace may precede a complete object
			text = text[start+1:]
			continue
		}
		objects = append(objects, obj)
		text = text[end:]
	}
}

// firstObject returns the first balanced object and the offset just past it.
func firstObject(text string) (string, int, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", 0, fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i, c := range text[start:] {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end := start + i + 1
				return text[start:end], end, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unbalanced JSON braces")
}
