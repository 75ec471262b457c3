package prompt

import (
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
)

type MessageTemplate struct {
	Role     llm.Role
	Template *Template
}

type ChatTemplate struct {
	messages []MessageTemplate
}

func NewChatTemplate(messages ...MessageTemplate) (*ChatTemplate, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("chat template needs at least one message")
	}
	for i, m := range messages {
		if m.Template == nil {
			return nil, fmt.Errorf("chat template message %d has no template", i)
		}
		switch m.Role {
		case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
		default:
			return nil, fmt.Errorf("chat template message %d has unknown role %q", i, m.Role)
		}
	}
	return &ChatTemplate{messages: messages}, nil
}

// InputVariables returns the union of the message variables in first-seen order.
func (c *ChatTemplate) InputVariables() []string {
	seen := map[string]bool{}
	var vars []string
	for _, m := range c.messages {
		for _, v := range m.Template.InputVariables() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}

func (c *ChatTemplate) FormatMessages(values map[string]string) ([]llm.Message, error) {
	out := make([]llm.Message, 0, len(c.messages))
	for _, m := range c.messages {
		content, err := m.Template.Format(values)
		if err != nil {
			return nil, err
		}
		out = append(out, llm.Message{Role: m.Role, Content: content})
	}
	return out, nil
}

// Format renders the conversation as "System: ...\nHuman: ..." text.
func (c *ChatTemplate) Format(values map[string]string) (string, error) {
	messages, err := c.FormatMessages(values)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, speaker(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n"), nil
}

func speaker(role llm.Role) string {
	switch role {
	case llm.RoleSystem:
		return "System"
	case llm.RoleAssistant:
		return "AI"
	default:
		return "Human"
	}
}
