// Package prompt fills prompt templates with request values.
//
// Templates use text/template syntax ({{.name}}) and declare the variables they expect.
// A fill that lacks a declared variable fails with ErrMissingVariable; a template that
// references a variable it did not declare is rejected when it is built.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var ErrMissingVariable = errors.New("missing template variable")

type Template struct {
	name           string
	text           string
	tmpl           *template.Template
	inputVariables []string
	partials       map[string]string
}

type Option func(*Template)

// WithPartials pre-binds variables so callers do not have to supply them on every fill.
func WithPartials(partials map[string]string) Option {
	return func(t *Template) {
		for k, v := range partials {
			t.partials[k] = v
		}
	}
}

func NewTemplate(name string, text string, inputVariables []string, opts ...Option) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	t := &Template{
		name:           name,
		text:           text,
		tmpl:           tmpl,
		inputVariables: append([]string(nil), inputVariables...),
		partials:       map[string]string{},
	}
	for _, opt := range opts {
		opt(t)
	}

	// Trial render with every known variable bound to an empty value.
	probe := make(map[string]string, len(t.inputVariables)+len(t.partials))
	for k, v := range t.partials {
		probe[k] = v
	}
	for _, v := range t.inputVariables {
		probe[v] = ""
	}
	if err := tmpl.Execute(&strings.Builder{}, probe); err != nil {
		return nil, fmt.Errorf("template %s references an undeclared variable: %w", name, err)
	}

	return t, nil
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) InputVariables() []string {
	return append([]string(nil), t.inputVariables...)
}

// Format renders the template. Values not declared as inputs are ignored.
func (t *Template) Format(values map[string]string) (string, error) {
	data := make(map[string]string, len(t.inputVariables)+len(t.partials))
	for k, v := range t.partials {
		data[k] = v
	}
	for _, name := range t.inputVariables {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("%w: %s (template %s)", ErrMissingVariable, name, t.name)
		}
		data[name] = v
	}

	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", t.name, err)
	}
	return sb.String(), nil
}
