package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/prompt"
	"github.com/rs/zerolog"
)

// stubClient returns canned replies in order and records every request.
type stubClient struct {
	replies  []string
	requests []llm.Request
	err      error
}

func (s *stubClient) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, request)
	if s.err != nil {
		return nil, s.err
	}
	i := len(s.requests) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return &llm.Response{Content: s.replies[i], StopReason: "stop", Model: "stub-model"}, nil
}

func (s *stubClient) InvokeModelStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	resp, err := s.InvokeModel(ctx, request)
	if err != nil {
		return nil, err
	}
	for _, word := range strings.SplitAfter(resp.Content, " ") {
		if err := callback(word); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	t.Setenv("PROMPTS_CONFIG_PATH", "")
	cfg, err := config.LoadPromptsConfig()
	if err != nil {
		t.Fatalf("LoadPromptsConfig failed: %v", err)
	}
	logger := zerolog.Nop()
	svc, err := NewService(cfg, client, &logger)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

const documentReply = `{"number_of_words": 9, "subject": "Go", "summary": "Go is a language.", "most_common_word": "go"}`

func TestOneShot_PassThrough(t *testing.T) {
	client := &stubClient{replies: []string{"Paris is the capital of France."}}
	svc := newTestService(t, client)

	got, err := svc.OneShot(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("OneShot failed: %v", err)
	}

	if got.Content != "Paris is the capital of France." {
		t.Errorf("Expected content unmodified, got '%s'", got.Content)
	}
	if got.Model != "stub-model" || got.StopReason != "stop" {
		t.Errorf("Expected backend metadata to pass through, got %+v", got)
	}

	req := client.requests[0]
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser || req.Messages[0].Content != "What is the capital of France?" {
		t.Errorf("Expected the input as a single user message, got %+v", req.Messages)
	}
	if req.MaxTokens != 1024 {
		t.Errorf("Expected default max_tokens=1024, got %d", req.MaxTokens)
	}
}

func TestOneShotStream_ForwardsChunks(t *testing.T) {
	client := &stubClient{replies: []string{"one two three"}}
	svc := newTestService(t, client)

	var chunks []string
	got, err := svc.OneShotStream(context.Background(), "count", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("OneShotStream failed: %v", err)
	}

	if strings.Join(chunks, "") != "one two three" {
		t.Errorf("Expected chunks to rebuild the content, got %v", chunks)
	}
	if got.Content != "one two three" {
		t.Errorf("Expected full content, got '%s'", got.Content)
	}
}

func TestTranslate_BuildsSystemAndUserMessages(t *testing.T) {
	client := &stubClient{replies: []string{"J'adore la programmation."}}
	svc := newTestService(t, client)

	got, err := svc.Translate(context.Background(), models.TranslateRequest{
		Text:           "I love programming.",
		InputLanguage:  "English",
		OutputLanguage: "French",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got.Content != "J'adore la programmation." {
		t.Errorf("Expected content unmodified, got '%s'", got.Content)
	}

	messages := client.requests[0].Messages
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != llm.RoleSystem || messages[0].Content != "You are a helpful assistant that translates English to French." {
		t.Errorf("Unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != llm.RoleUser || messages[1].Content != "I love programming." {
		t.Errorf("Unexpected user message: %+v", messages[1])
	}
}

func TestFewShot_PrependsExamples(t *testing.T) {
	client := &stubClient{replies: []string{"So the final answer is: 3 and 81."}}
	svc := newTestService(t, client)

	got, err := svc.FewShot(context.Background(), "What is interesting about the number 9?")
	if err != nil {
		t.Fatalf("FewShot failed: %v", err)
	}
	if got.Content != "So the final answer is: 3 and 81." {
		t.Errorf("Expected content unmodified, got '%s'", got.Content)
	}

	sent := client.requests[0].Messages[0].Content
	if !strings.HasPrefix(sent, "Question: What is interesting about the number 7?\n") {
		t.Errorf("Expected first example first, got %q", sent[:60])
	}
	if !strings.HasSuffix(sent, "\n\nQuestion: What is interesting about the number 9?") {
		t.Errorf("Expected suffix question last, got %q", sent)
	}
	if !strings.Contains(sent, "the square is 64.") {
		t.Error("Expected second example in prompt")
	}
}

func TestAdd_RunsAgent(t *testing.T) {
	client := &stubClient{replies: []string{
		`{"action": "Add", "action_input": {"num1": "12", "num2": "30"}}`,
		`{"action": "Final Answer", "action_input": "12 + 30 = 42"}`,
	}}
	svc := newTestService(t, client)

	got, err := svc.Add(context.Background(), "What is 12 plus 30?")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.Output != "12 + 30 = 42" {
		t.Errorf("Expected agent output, got '%s'", got.Output)
	}
	if len(got.Steps) != 1 || got.Steps[0].Observation != "42" {
		t.Errorf("Expected one Add step observing 42, got %+v", got.Steps)
	}
	if client.requests[0].MaxTokens != 512 {
		t.Errorf("Expected agent max_tokens=512, got %d", client.requests[0].MaxTokens)
	}
}

func TestProcessDocument(t *testing.T) {
	client := &stubClient{replies: []string{"```json\n" + documentReply + "\n```"}}
	svc := newTestService(t, client)

	doc, err := svc.ProcessDocument(context.Background(), "Go is a language. Go is fast. Go compiles.")
	if err != nil {
		t.Fatalf("ProcessDocument failed: %v", err)
	}
	if doc.NumberOfWords != 9 || doc.MostCommonWord != "go" {
		t.Errorf("Unexpected document: %+v", doc)
	}

	sent := client.requests[0].Prompt
	if !strings.HasPrefix(sent, "Extract information from the document.\n") {
		t.Errorf("Unexpected extraction prompt: %q", sent)
	}
	if !strings.Contains(sent, "most_common_word") || !strings.HasSuffix(sent, "Go compiles.\n") {
		t.Errorf("Expected format instructions and document in prompt, got %q", sent)
	}
}

func TestProcessDocument_MalformedOutput(t *testing.T) {
	client := &stubClient{replies: []string{`{"number_of_words": 9, "subject": "Go"}`}}
	svc := newTestService(t, client)

	_, err := svc.ProcessDocument(context.Background(), "Go is a language.")
	if !errors.Is(err, parser.ErrInvalidOutput) {
		t.Errorf("Expected ErrInvalidOutput, got %v", err)
	}
}

func TestBackendErrorSurfaces(t *testing.T) {
	backendErr := errors.New("backend timeout")
	svc := newTestService(t, &stubClient{err: backendErr})

	if _, err := svc.OneShot(context.Background(), "hi"); !errors.Is(err, backendErr) {
		t.Errorf("Expected backend error to be wrapped, got %v", err)
	}
	if _, err := svc.Translate(context.Background(), models.TranslateRequest{Text: "a", InputLanguage: "b", OutputLanguage: "c"}); !errors.Is(err, backendErr) {
		t.Errorf("Expected backend error to be wrapped, got %v", err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		job     models.Job
		replies []string
		check   func(t *testing.T, result any)
	}{
		{
			name:    "one-shot",
			job:     models.Job{Pipeline: OneShot, Inputs: map[string]string{"input": "hi"}},
			replies: []string{"hello"},
			check: func(t *testing.T, result any) {
				if c := result.(*models.Completion); c.Content != "hello" {
					t.Errorf("Expected 'hello', got '%s'", c.Content)
				}
			},
		},
		{
			name:    "language-translator",
			job:     models.Job{Pipeline: LanguageTranslator, Inputs: map[string]string{"text": "hi", "input_language": "English", "output_language": "German"}},
			replies: []string{"hallo"},
			check: func(t *testing.T, result any) {
				if c := result.(*models.Completion); c.Content != "hallo" {
					t.Errorf("Expected 'hallo', got '%s'", c.Content)
				}
			},
		},
		{
			name:    "few-shot",
			job:     models.Job{Pipeline: FewShot, Inputs: map[string]string{"input": "What about 2?"}},
			replies: []string{"four"},
			check: func(t *testing.T, result any) {
				if c := result.(*models.Completion); c.Content != "four" {
					t.Errorf("Expected 'four', got '%s'", c.Content)
				}
			},
		},
		{
			name:    "add",
			job:     models.Job{Pipeline: Add, Inputs: map[string]string{"input": "1 and 1"}},
			replies: []string{`{"action": "Final Answer", "action_input": "2"}`},
			check: func(t *testing.T, result any) {
				if a := result.(*models.AgentAnswer); a.Output != "2" {
					t.Errorf("Expected '2', got '%s'", a.Output)
				}
			},
		},
		{
			name:    "process-document",
			job:     models.Job{Pipeline: ProcessDocument, Inputs: map[string]string{"input": "Go."}},
			replies: []string{documentReply},
			check: func(t *testing.T, result any) {
				if d := result.(*parser.TextDocument); d.Subject != "Go" {
					t.Errorf("Expected subject 'Go', got '%s'", d.Subject)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &stubClient{replies: tt.replies})
			result, err := svc.Run(context.Background(), tt.job)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			tt.check(t, result)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	svc := newTestService(t, &stubClient{replies: []string{"unused"}})

	if _, err := svc.Run(context.Background(), models.Job{Pipeline: "summarize"}); !errors.Is(err, ErrUnknownPipeline) {
		t.Errorf("Expected ErrUnknownPipeline, got %v", err)
	}
	if _, err := svc.Run(context.Background(), models.Job{Pipeline: LanguageTranslator, Inputs: map[string]string{"text": "hi"}}); !errors.Is(err, prompt.ErrMissingVariable) {
		t.Errorf("Expected ErrMissingVariable, got %v", err)
	}
	if _, err := svc.Run(context.Background(), models.Job{Pipeline: Add}); !errors.Is(err, prompt.ErrMissingVariable) {
		t.Errorf("Expected ErrMissingVariable for add, got %v", err)
	}
}
