package llm

import "strings"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Prompt      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Content    string
	StopReason string
	Model      string
}

// Conversation returns the messages to send. A bare prompt becomes a single user message.
func (r Request) Conversation() []Message {
	if len(r.Messages) > 0 {
		return r.Messages
	}
	return []Message{{Role: RoleUser, Content: r.Prompt}}
}

// SplitSystem separates system messages (joined by a blank line) from the rest of the
// conversation, for backends that carry the system prompt outside the message list.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
