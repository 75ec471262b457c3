package config

import "go.yaml.in/yaml/v3"

// PromptsConfig is the prompt catalogue: one entry per pipeline plus shared model defaults.
type PromptsConfig struct {
	Prompts Prompts `yaml:"prompts"`
}

type Prompts struct {
	DefaultModel       ModelConfig   `yaml:"default_model"`
	OneShot            TemplateEntry `yaml:"one_shot"`
	LanguageTranslator ChatEntry     `yaml:"language_translator"`
	FewShot            FewShotEntry  `yaml:"few_shot"`
	Agent              AgentEntry    `yaml:"agent"`
	ProcessDocument    TemplateEntry `yaml:"process_document"`
}

// ModelConfig holds generation parameters. Per-entry values override default_model.
// An explicit temperature of 0 still overrides.
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`

	temperatureSet bool
}

func (m *ModelConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain ModelConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*m = ModelConfig(p)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "temperature" {
			m.temperatureSet = true
		}
	}
	return nil
}

type TemplateEntry struct {
	Template       string       `yaml:"template"`
	InputVariables []string     `yaml:"input_variables"`
	Model          *ModelConfig `yaml:"model,omitempty"`
}

type MessageEntry struct {
	Role           string   `yaml:"role"`
	Template       string   `yaml:"template"`
	InputVariables []string `yaml:"input_variables"`
}

type ChatEntry struct {
	Messages []MessageEntry `yaml:"messages"`
	Model    *ModelConfig   `yaml:"model,omitempty"`
}

type FewShotEntry struct {
	ExampleTemplate TemplateEntry       `yaml:"example_template"`
	Examples        []map[string]string `yaml:"examples"`
	Prefix          *TemplateEntry      `yaml:"prefix,omitempty"`
	Suffix          TemplateEntry       `yaml:"suffix"`
	Separator       string              `yaml:"separator"`
	Model           *ModelConfig        `yaml:"model,omitempty"`
}

type AgentEntry struct {
	MaxIterations int          `yaml:"max_iterations"`
	Model         *ModelConfig `yaml:"model,omitempty"`
}
