package gpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
)

func (c *Client) params(request llm.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:    toMessages(request.Conversation()),
		Temperature: openai.Float(request.Temperature),
		Model:       openai.ChatModel(c.ModelID),
	}
	if request.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(request.MaxTokens))
	}
	return params
}

func toMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (c *Client) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	output, err := c.Client.Chat.Completions.New(ctx, c.params(request))
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gpt model. Error: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	response := output.Choices[0]
	return &llm.Response{
		Content:    response.Message.Content,
		StopReason: string(response.FinishReason),
		Model:      output.Model,
	}, nil
}

func (c *Client) InvokeModelStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	stream := c.Client.Chat.Completions.NewStreaming(ctx, c.params(request))
	defer stream.Close()

	var fullContent strings.Builder
	var stopReason string
	model := c.ModelID

	for stream.Next() {
		chunk := stream.Current()
		if chunk.Model != "" {
			model = chunk.Model
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			stopReason = string(choice.FinishReason)
		}
		if choice.Delta.Content == "" {
			continue
		}

		fullContent.WriteString(choice.Delta.Content)
		if callback != nil {
			if err := callback(choice.Delta.Content); err != nil {
				return nil, fmt.Errorf("callback error: %w", err)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("unable to stream gpt model. Error: %w", err)
	}

	return &llm.Response{
		Content:    fullContent.String(),
		StopReason: stopReason,
		Model:      model,
	}, nil
}
