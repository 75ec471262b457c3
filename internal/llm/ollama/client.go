// Package ollama talks to a local Ollama runtime through langchaingo.
package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
)

const (
	DefaultServerURL = "http://localhost:11434"
	DefaultModel     = "llama3.2"
)

type Client struct {
	Model   llms.Model
	ModelID string
}

func NewClient(serverURL string, model string) (*Client, error) {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	if model == "" {
		model = DefaultModel
	}

	ollamaLLM, err := lcollama.New(
		lcollama.WithServerURL(strings.TrimSuffix(serverURL, "/")),
		lcollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create ollama client: %w", err)
	}

	return &Client{
		Model:   ollamaLLM,
		ModelID: model,
	}, nil
}

func toMessageContent(messages []llm.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

func callOptions(request llm.Request) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(request.Temperature)}
	if request.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(request.MaxTokens))
	}
	return opts
}

func (c *Client) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	return c.generate(ctx, request, callOptions(request))
}

func (c *Client) InvokeModelStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	opts := callOptions(request)
	if callback != nil {
		opts = append(opts, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return callback(string(chunk))
		}))
	}
	return c.generate(ctx, request, opts)
}

func (c *Client) generate(ctx context.Context, request llm.Request, opts []llms.CallOption) (*llm.Response, error) {
	output, err := c.Model.GenerateContent(ctx, toMessageContent(request.Conversation()), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke ollama model: %w", err)
	}
	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	return &llm.Response{
		Content:    choice.Content,
		StopReason: choice.StopReason,
		Model:      c.ModelID,
	}, nil
}
