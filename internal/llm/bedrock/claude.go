package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
)

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// claudeStreamEvent covers the message_start, content_block_* and message_delta events.
type claudeStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	ContentBlock struct {
		Text string `json:"text"`
	} `json:"content_block"`
}

var anthropicVersion = "bedrock-2023-05-31"

func buildPayload(request llm.Request) ([]byte, error) {
	system, messages := llm.SplitSystem(request.Conversation())

	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        request.MaxTokens,
		Temperature:      request.Temperature,
		System:           system,
		Messages:         make([]claudeMessage, 0, len(messages)),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, claudeMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	return json.Marshal(payload)
}

func parseResponse(body []byte) (*claudeMessageResponse, error) {
	var response claudeMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal bedrock response. Error: %w", err)
	}
	return &response, nil
}

func (c *Client) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	body, err := buildPayload(request)
	if err != nil {
		return nil, fmt.Errorf("Unable to serialize claude request. Error: %w", err)
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.ModelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to invoke claude model. Error: %w", err)
	}

	response, err := parseResponse(output.Body)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &llm.Response{
		Content:    content.String(),
		StopReason: response.StopReason,
		Model:      c.ModelID,
	}, nil
}

func (c *Client) InvokeModelStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	body, err := buildPayload(request)
	if err != nil {
		return nil, fmt.Errorf("Unable to serialize claude request. Error: %w", err)
	}

	output, err := c.Client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     &c.ModelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to invoke claude model stream. Error: %w", err)
	}

	stream := output.GetStream()
	defer stream.Close()

	var fullContent strings.Builder
	var stopReason string

	for event := range stream.Events() {
		chunk, ok := event.(*types.ResponseStreamMemberChunk)
		if !ok {
			continue
		}

		text, reason, err := decodeStreamEvent(chunk.Value.Bytes)
		if err != nil {
			// Skip chunks we can't parse
			continue
		}
		if reason != "" {
			stopReason = reason
		}
		if text == "" {
			continue
		}

		fullContent.WriteString(text)
		if callback != nil {
			if err := callback(text); err != nil {
				return nil, fmt.Errorf("callback error: %w", err)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("stream error: %w", err)
	}

	return &llm.Response{
		Content:    fullContent.String(),
		StopReason: stopReason,
		Model:      c.ModelID,
	}, nil
}

func decodeStreamEvent(data []byte) (string, string, error) {
	var event claudeStreamEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return "", "", err
	}

	switch event.Type {
	case "content_block_start":
		return event.ContentBlock.Text, "", nil
	case "content_block_delta":
		return event.Delta.Text, "", nil
	case "message_delta":
		return "", event.Delta.StopReason, nil
	default:
		return "", "", nil
	}
}
