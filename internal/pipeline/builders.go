package pipeline

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/prompt"
)

func buildChat(entry config.ChatEntry) (*prompt.ChatTemplate, error) {
	messages := make([]prompt.MessageTemplate, 0, len(entry.Messages))
	for i, m := range entry.Messages {
		tmpl, err := prompt.NewTemplate(fmt.Sprintf("%s-%d", LanguageTranslator, i), m.Template, m.InputVariables)
		if err != nil {
			return nil, err
		}
		messages = append(messages, prompt.MessageTemplate{Role: llm.Role(m.Role), Template: tmpl})
	}
	return prompt.NewChatTemplate(messages...)
}

func buildFewShot(entry config.FewShotEntry) (*prompt.FewShotTemplate, error) {
	example, err := prompt.NewTemplate(FewShot+"-example", entry.ExampleTemplate.Template, entry.ExampleTemplate.InputVariables)
	if err != nil {
		return nil, err
	}
	suffix, err := prompt.NewTemplate(FewShot+"-suffix", entry.Suffix.Template, entry.Suffix.InputVariables)
	if err != nil {
		return nil, err
	}

	var prefix *prompt.Template
	if entry.Prefix != nil && entry.Prefix.Template != "" {
		prefix, err = prompt.NewTemplate(FewShot+"-prefix", entry.Prefix.Template, entry.Prefix.InputVariables)
		if err != nil {
			return nil, err
		}
	}

	return prompt.NewFewShotTemplate(prompt.FewShotConfig{
		ExampleTemplate: example,
		Examples:        entry.Examples,
		Prefix:          prefix,
		Suffix:          suffix,
		Separator:       entry.Separator,
	})
}
