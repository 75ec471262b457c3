package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/rs/zerolog"
)

// scriptedClient replays canned replies and records the requests it saw.
type scriptedClient struct {
	replies  []string
	requests []llm.Request
	err      error
}

func (s *scriptedClient) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, request)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.requests) > len(s.replies) {
		return &llm.Response{Content: s.replies[len(s.replies)-1]}, nil
	}
	return &llm.Response{Content: s.replies[len(s.requests)-1]}, nil
}

func (s *scriptedClient) InvokeModelStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	return s.InvokeModel(ctx, request)
}

func newTestAgent(t *testing.T, client llm.Client, cfg Config) *Agent {
	t.Helper()
	logger := zerolog.Nop()
	a, err := NewAgent(client, []Tool{AddTool{}}, cfg, &logger)
	if err != nil {
		t.Fatalf("NewAgent failed: %v", err)
	}
	return a
}

func TestRun_AddThenFinalAnswer(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"Thought: I should add the numbers.\nAction:\n```\n{\"action\": \"Add\", \"action_input\": {\"num1\": \"2\", \"num2\": \"3\"}}\n```",
		"Thought: I know what to respond\nAction:\n```\n{\"action\": \"Final Answer\", \"action_input\": \"2 plus 3 is 5\"}\n```",
	}}
	a := newTestAgent(t, client, Config{})

	result, err := a.Run(context.Background(), "What is 2 plus 3?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Output != "2 plus 3 is 5" {
		t.Errorf("Expected final answer, got '%s'", result.Output)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("Expected 1 tool step, got %d", len(result.Steps))
	}
	if result.Steps[0].Action != "Add" || result.Steps[0].Observation != "5" {
		t.Errorf("Unexpected step: %+v", result.Steps[0])
	}

	if len(client.requests) != 2 {
		t.Fatalf("Expected 2 model calls, got %d", len(client.requests))
	}
	system := client.requests[0].Messages[0]
	if system.Role != llm.RoleSystem || !strings.Contains(system.Content, "Add: useful for adding numbers together") {
		t.Errorf("Expected system prompt to describe the Add tool, got %q", system.Content)
	}
	second := client.requests[1].Messages[1].Content
	if !strings.Contains(second, "Observation: 5") {
		t.Errorf("Expected observation in scratchpad, got %q", second)
	}
}

func TestRun_UnknownToolBecomesObservation(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action": "Multiply", "action_input": {"a": 2, "b": 3}}`,
		`{"action": "Final Answer", "action_input": "done"}`,
	}}
	a := newTestAgent(t, client, Config{})

	result, err := a.Run(context.Background(), "Multiply 2 by 3")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(result.Steps))
	}
	if !strings.Contains(result.Steps[0].Observation, "Multiply is not a valid tool") {
		t.Errorf("Expected unknown-tool observation, got '%s'", result.Steps[0].Observation)
	}
	if !strings.Contains(result.Steps[0].Observation, "Add") {
		t.Errorf("Expected observation to list valid tools, got '%s'", result.Steps[0].Observation)
	}
}

func TestRun_ToolErrorBecomesObservation(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action": "Add", "action_input": {"num1": "two", "num2": "3"}}`,
		`{"action": "Final Answer", "action_input": "cannot add"}`,
	}}
	a := newTestAgent(t, client, Config{})

	result, err := a.Run(context.Background(), "Add two and 3")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(result.Steps[0].Observation, "Error:") {
		t.Errorf("Expected error observation, got '%s'", result.Steps[0].Observation)
	}
}

func TestRun_SchemaViolationBecomesObservation(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action": "Add", "action_input": {"num1": "2"}}`,
		`{"action": "Final Answer", "action_input": "missing"}`,
	}}
	a := newTestAgent(t, client, Config{})

	result, err := a.Run(context.Background(), "Add 2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(result.Steps[0].Observation, "invalid input for Add") {
		t.Errorf("Expected schema observation, got '%s'", result.Steps[0].Observation)
	}
}

func TestRun_IterationLimit(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"action": "Add", "action_input": {"num1": "1", "num2": "1"}}`,
	}}
	a := newTestAgent(t, client, Config{MaxIterations: 3})

	_, err := a.Run(context.Background(), "loop forever")
	if !errors.Is(err, ErrIterationLimit) {
		t.Fatalf("Expected ErrIterationLimit, got %v", err)
	}
	if len(client.requests) != 3 {
		t.Errorf("Expected 3 model calls, got %d", len(client.requests))
	}
}

func TestRun_UnparseableReplyRetries(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"I think the answer is 5.",
		`{"action": "Final Answer", "action_input": "5"}`,
	}}
	a := newTestAgent(t, client, Config{})

	result, err := a.Run(context.Background(), "2+3?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Output != "5" {
		t.Errorf("Expected '5', got '%s'", result.Output)
	}
	if !strings.Contains(client.requests[1].Messages[1].Content, "Invalid or incomplete response") {
		t.Error("Expected corrective observation on the second call")
	}
}

func TestRun_BracesInThought(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"Thought: the operands are {2, 3}, no tool needed.\nAction:\n```\n{\"action\": \"Final Answer\", \"action_input\": \"5\"}\n```",
	}}
	a := newTestAgent(t, client, Config{MaxIterations: 3})

	result, err := a.Run(context.Background(), "2+3?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Output != "5" {
		t.Errorf("Expected '5', got '%s'", result.Output)
	}
	if len(client.requests) != 1 {
		t.Errorf("Expected a single model call, got %d", len(client.requests))
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantAction string
		wantErr    bool
	}{
		{name: "fenced", reply: "Action:\n```\n{\"action\": \"Add\", \"action_input\": {}}\n```", wantAction: "Add"},
		{name: "fenced json tag", reply: "```json\n{\"action\": \"Final Answer\", \"action_input\": \"ok\"}\n```", wantAction: FinalAnswer},
		{name: "bare object after prose braces", reply: "Thought: {x}\n{\"action\": \"Add\"}", wantAction: "Add"},
		{name: "object without action", reply: `{"tool": "Add"}`, wantErr: true},
		{name: "no json", reply: "just words", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAction(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got action %q", got.Action)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAction failed: %v", err)
			}
			if got.Action != tt.wantAction {
				t.Errorf("Expected action %q, got %q", tt.wantAction, got.Action)
			}
		})
	}
}

func TestRun_BackendError(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	a := newTestAgent(t, client, Config{})

	if _, err := a.Run(context.Background(), "2+3?"); err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected backend error to surface, got %v", err)
	}
}

func TestRun_HallucinatedObservationIgnored(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"{\"action\": \"Add\", \"action_input\": {\"num1\": \"4\", \"num2\": \"4\"}}\nObservation: 9\nThought: done",
		`{"action": "Final Answer", "action_input": "8"}`,
	}}
	a := newTestAgent(t, client, Config{})

	result, err := a.Run(context.Background(), "4+4?")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Steps[0].Observation != "8" {
		t.Errorf("Expected real tool output, got '%s'", result.Steps[0].Observation)
	}
	if strings.Contains(client.requests[1].Messages[1].Content, "Observation: 9") {
		t.Error("Expected model-written observation to be dropped")
	}
}

func TestLookup(t *testing.T) {
	a := newTestAgent(t, &scriptedClient{}, Config{})

	if tool, err := a.Lookup("Add"); err != nil || tool.Name() != "Add" {
		t.Errorf("Expected Add tool, got %v, %v", tool, err)
	}
	if _, err := a.Lookup("Divide"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
}

func TestNewAgent_RequiresTools(t *testing.T) {
	logger := zerolog.Nop()
	if _, err := NewAgent(&scriptedClient{}, nil, Config{}, &logger); err == nil {
		t.Error("Expected error without tools")
	}
}
