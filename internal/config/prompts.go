package config

import (
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"go.yaml.in/yaml/v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

const (
	defaultMaxTokens     = 1024
	defaultMaxIterations = 15
	defaultSeparator     = "\n\n"
)

// LoadPromptsConfig reads the catalogue from PROMPTS_CONFIG_PATH, or the embedded default
// when the variable is unset.
func LoadPromptsConfig() (*PromptsConfig, error) {
	path := os.Getenv("PROMPTS_CONFIG_PATH")
	if path == "" {
		return ParsePromptsConfig(defaultPrompts)
	}
	return LoadPromptsConfigFrom(path)
}

func LoadPromptsConfigFrom(path string) (*PromptsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParsePromptsConfig(data)
}

func ParsePromptsConfig(data []byte) (*PromptsConfig, error) {
	var cfg PromptsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *PromptsConfig) {
	p := &cfg.Prompts
	if p.DefaultModel.MaxTokens == 0 {
		p.DefaultModel.MaxTokens = defaultMaxTokens
	}

	p.OneShot.Model = merge(p.DefaultModel, p.OneShot.Model)
	p.LanguageTranslator.Model = merge(p.DefaultModel, p.LanguageTranslator.Model)
	p.FewShot.Model = merge(p.DefaultModel, p.FewShot.Model)
	p.Agent.Model = merge(p.DefaultModel, p.Agent.Model)
	p.ProcessDocument.Model = merge(p.DefaultModel, p.ProcessDocument.Model)

	if p.FewShot.Separator == "" {
		p.FewShot.Separator = defaultSeparator
	}
	if p.Agent.MaxIterations == 0 {
		p.Agent.MaxIterations = defaultMaxIterations
	}
}

// merge returns the override with unset fields taken from defaults.
func merge(defaults ModelConfig, override *ModelConfig) *ModelConfig {
	if override == nil {
		m := defaults
		return &m
	}
	merged := *override
	if merged.MaxTokens == 0 {
		merged.MaxTokens = defaults.MaxTokens
	}
	if !merged.temperatureSet {
		merged.Temperature = defaults.Temperature
	}
	return &merged
}

func (c *PromptsConfig) Validate() error {
	p := c.Prompts

	models := map[string]*ModelConfig{
		"default_model":       &p.DefaultModel,
		"one_shot":            p.OneShot.Model,
		"language_translator": p.LanguageTranslator.Model,
		"few_shot":            p.FewShot.Model,
		"agent":               p.Agent.Model,
		"process_document":    p.ProcessDocument.Model,
	}
	for name, m := range models {
		if m == nil {
			continue
		}
		if m.MaxTokens < 0 {
			return fmt.Errorf("%s: negative max_tokens %d", name, m.MaxTokens)
		}
		if m.Temperature < 0 || m.Temperature > 1 {
			return fmt.Errorf("%s: invalid temperature %.2f (must be between 0 and 1)", name, m.Temperature)
		}
	}

	if err := validateTemplate("one_shot", p.OneShot.Template); err != nil {
		return err
	}
	if err := validateTemplate("process_document", p.ProcessDocument.Template); err != nil {
		return err
	}

	if len(p.LanguageTranslator.Messages) == 0 {
		return fmt.Errorf("language_translator: no messages configured")
	}
	for i, m := range p.LanguageTranslator.Messages {
		switch m.Role {
		case "system", "user", "assistant":
		default:
			return fmt.Errorf("language_translator: message %d has invalid role %q", i, m.Role)
		}
		if err := validateTemplate(fmt.Sprintf("language_translator message %d", i), m.Template); err != nil {
			return err
		}
	}

	if err := validateTemplate("few_shot example_template", p.FewShot.ExampleTemplate.Template); err != nil {
		return err
	}
	if err := validateTemplate("few_shot suffix", p.FewShot.Suffix.Template); err != nil {
		return err
	}
	if len(p.FewShot.Examples) == 0 {
		return fmt.Errorf("few_shot: no examples configured")
	}

	if p.Agent.MaxIterations < 0 {
		return fmt.Errorf("agent: negative max_iterations %d", p.Agent.MaxIterations)
	}

	return nil
}

func validateTemplate(name, text string) error {
	if text == "" {
		return fmt.Errorf("%s: missing prompt", name)
	}
	if _, err := template.New(name).Parse(text); err != nil {
		return fmt.Errorf("%s: invalid prompt template: %w", name, err)
	}
	return nil
}
