package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	lastInput     string
	lastTranslate models.TranslateRequest
	err           error
}

func (f *fakePipeline) OneShot(ctx context.Context, input string) (*models.Completion, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &models.Completion{Content: "reply to " + input, StopReason: "stop", Model: "test-model"}, nil
}

func (f *fakePipeline) Translate(ctx context.Context, req models.TranslateRequest) (*models.Completion, error) {
	f.lastTranslate = req
	return &models.Completion{Content: "Hallo", StopReason: "stop", Model: "test-model"}, nil
}

func (f *fakePipeline) FewShot(ctx context.Context, input string) (*models.Completion, error) {
	f.lastInput = input
	return &models.Completion{Content: "So the final answer is: No", Model: "test-model"}, nil
}

func (f *fakePipeline) Add(ctx context.Context, phrase string) (*models.AgentAnswer, error) {
	f.lastInput = phrase
	return &models.AgentAnswer{
		Output: "7",
		Steps:  []models.AgentStep{{Action: "Add", Input: `{"num1":3,"num2":4}`, Observation: "7"}},
	}, nil
}

func (f *fakePipeline) ProcessDocument(ctx context.Context, document string) (*parser.TextDocument, error) {
	f.lastInput = document
	return &parser.TextDocument{NumberOfWords: 3, Subject: "Go", Summary: "Go is fun.", MostCommonWord: "go"}, nil
}

func connect(t *testing.T, p Pipeline) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "prompt-agent", Version: "test"}, nil)
	Register(server, p)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func structured(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRegister_ListsAllTools(t *testing.T) {
	cs := connect(t, &fakePipeline{})

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"add", "few_shot", "language_translator", "one_shot", "process_document"}, names)
}

func TestOneShotTool(t *testing.T) {
	p := &fakePipeline{}
	cs := connect(t, p)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "one_shot",
		Arguments: map[string]any{"input": "Hello"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := structured(t, res)
	assert.Equal(t, "reply to Hello", out["content"])
	assert.Equal(t, "test-model", out["model"])
	assert.Equal(t, "Hello", p.lastInput)
}

func TestTranslateTool(t *testing.T) {
	p := &fakePipeline{}
	cs := connect(t, p)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "language_translator",
		Arguments: map[string]any{
			"text":            "Hello",
			"input_language":  "English",
			"output_language": "German",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "Hallo", structured(t, res)["content"])
	assert.Equal(t, "German", p.lastTranslate.OutputLanguage)
}

func TestAddTool(t *testing.T) {
	cs := connect(t, &fakePipeline{})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "add",
		Arguments: map[string]any{"phrase": "add 3 and 4"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := structured(t, res)
	assert.Equal(t, "7", out["output"])
	steps, ok := out["steps"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 1)
}

func TestProcessDocumentTool(t *testing.T) {
	cs := connect(t, &fakePipeline{})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "process_document",
		Arguments: map[string]any{"document": "Go go gopher"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := structured(t, res)
	assert.Equal(t, "Go", out["subject"])
	assert.EqualValues(t, 3, out["number_of_words"])
}

func TestToolErrorsAreReportedInResult(t *testing.T) {
	cs := connect(t, &fakePipeline{err: errors.New("backend down")})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "one_shot",
		Arguments: map[string]any{"input": "Hello"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestEmptyInputIsRejected(t *testing.T) {
	handler := NewFewShotHandler(&fakePipeline{})

	_, _, err := handler(context.Background(), nil, FewShotInput{Input: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}
