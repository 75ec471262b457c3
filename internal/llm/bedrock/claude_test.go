package bedrock

import (
	"encoding/json"
	"testing"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
)

func TestBuildPayload_LiftsSystemMessage(t *testing.T) {
	body, err := buildPayload(llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a helpful assistant that translates English to French."},
			{Role: llm.RoleUser, Content: "I love programming."},
		},
		MaxTokens:   256,
		Temperature: 0.0,
	})
	if err != nil {
		t.Fatalf("buildPayload failed: %v", err)
	}

	var payload claudeMessageRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if payload.AnthropicVersion != anthropicVersion {
		t.Errorf("Expected anthropic_version %s, got %s", anthropicVersion, payload.AnthropicVersion)
	}
	if payload.System != "You are a helpful assistant that translates English to French." {
		t.Errorf("Expected system prompt to be lifted, got '%s'", payload.System)
	}
	if len(payload.Messages) != 1 || payload.Messages[0].Role != "user" {
		t.Fatalf("Expected a single user message, got %+v", payload.Messages)
	}
	if payload.MaxTokens != 256 {
		t.Errorf("Expected max_tokens=256, got %d", payload.MaxTokens)
	}
}

func TestBuildPayload_PromptOnly(t *testing.T) {
	body, err := buildPayload(llm.Request{Prompt: "What is 2+2?", MaxTokens: 10})
	if err != nil {
		t.Fatalf("buildPayload failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := raw["system"]; ok {
		t.Error("Expected no system field when no system message is present")
	}
	messages := raw["messages"].([]any)
	first := messages[0].(map[string]any)
	if first["content"] != "What is 2+2?" {
		t.Errorf("Expected prompt as user content, got %v", first["content"])
	}
}

func TestDecodeStreamEvent(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantText   string
		wantReason string
		wantErr    bool
	}{
		{"delta", `{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hel"}}`, "Hel", "", false},
		{"block start", `{"type":"content_block_start","content_block":{"type":"text","text":""}}`, "", "", false},
		{"message delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn"}}`, "", "end_turn", false},
		{"message start", `{"type":"message_start","message":{"id":"x"}}`, "", "", false},
		{"garbage", `not json`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, reason, err := decodeStreamEvent([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if text != tt.wantText {
				t.Errorf("Expected text '%s', got '%s'", tt.wantText, text)
			}
			if reason != tt.wantReason {
				t.Errorf("Expected stop reason '%s', got '%s'", tt.wantReason, reason)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	resp, err := parseResponse([]byte(`{"content":[{"type":"text","text":"4"}],"stop_reason":"end_turn"}`))
	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}
	if resp.Content[0].Text != "4" || resp.StopReason != "end_turn" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if _, err := parseResponse([]byte(`{`)); err == nil {
		t.Error("Expected error for malformed body")
	}
}
