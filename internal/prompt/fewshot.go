package prompt

import (
	"fmt"
	"slices"
	"strings"
)

const DefaultSeparator = "\n\n"

type FewShotConfig struct {
	ExampleTemplate *Template
	Examples        []map[string]string
	Prefix          *Template
	Suffix          *Template
	Separator       string
}

type FewShotTemplate struct {
	prefix    *Template
	suffix    *Template
	examples  []string
	separator string
}

// NewFewShotTemplate renders the examples once; they do not depend on request values.
func NewFewShotTemplate(cfg FewShotConfig) (*FewShotTemplate, error) {
	if cfg.ExampleTemplate == nil {
		return nil, fmt.Errorf("few-shot template needs an example template")
	}
	if cfg.Suffix == nil {
		return nil, fmt.Errorf("few-shot template needs a suffix")
	}

	examples := make([]string, 0, len(cfg.Examples))
	for i, values := range cfg.Examples {
		rendered, err := cfg.ExampleTemplate.Format(values)
		if err != nil {
			return nil, fmt.Errorf("few-shot example %d: %w", i, err)
		}
		examples = append(examples, rendered)
	}

	separator := cfg.Separator
	if separator == "" {
		separator = DefaultSeparator
	}

	return &FewShotTemplate{
		prefix:    cfg.Prefix,
		suffix:    cfg.Suffix,
		examples:  examples,
		separator: separator,
	}, nil
}

func (f *FewShotTemplate) InputVariables() []string {
	var vars []string
	if f.prefix != nil {
		vars = append(vars, f.prefix.InputVariables()...)
	}
	for _, v := range f.suffix.InputVariables() {
		if !slices.Contains(vars, v) {
			vars = append(vars, v)
		}
	}
	return vars
}

// Format joins prefix, examples and suffix with the separator, skipping empty pieces.
func (f *FewShotTemplate) Format(values map[string]string) (string, error) {
	pieces := make([]string, 0, len(f.examples)+2)

	if f.prefix != nil {
		prefix, err := f.prefix.Format(values)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, prefix)
	}
	pieces = append(pieces, f.examples...)

	suffix, err := f.suffix.Format(values)
	if err != nil {
		return "", err
	}
	pieces = append(pieces, suffix)

	nonEmpty := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, f.separator), nil
}
