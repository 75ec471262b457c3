package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
)

// Pipeline is the subset of the pipeline service exposed as MCP tools.
type Pipeline interface {
	OneShot(ctx context.Context, input string) (*models.Completion, error)
	Translate(ctx context.Context, req models.TranslateRequest) (*models.Completion, error)
	FewShot(ctx context.Context, input string) (*models.Completion, error)
	Add(ctx context.Context, phrase string) (*models.AgentAnswer, error)
	ProcessDocument(ctx context.Context, document string) (*parser.TextDocument, error)
}

// OneShotInput is the MCP tool input schema for a raw prompt.
type OneShotInput struct {
	Input string `json:"input" jsonschema:"prompt text sent to the model as-is"`
}

// TranslateInput is the MCP tool input schema for the language translator.
type TranslateInput struct {
	Text           string `json:"text" jsonschema:"text to translate"`
	InputLanguage  string `json:"input_language" jsonschema:"language of the text"`
	OutputLanguage string `json:"output_language" jsonschema:"language to translate into"`
}

// FewShotInput is the MCP tool input schema for the few-shot pipeline.
type FewShotInput struct {
	Input string `json:"input" jsonschema:"question appended after the worked examples"`
}

// AddInput is the MCP tool input schema for the Add agent.
type AddInput struct {
	Phrase string `json:"phrase" jsonschema:"natural-language request, e.g. 'add 3 and 4'"`
}

// ProcessDocumentInput is the MCP tool input schema for document extraction.
type ProcessDocumentInput struct {
	Document string `json:"document" jsonschema:"raw document text"`
}

// Register adds every prompt pipeline as a tool on the server.
func Register(server *mcp.Server, p Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "one_shot",
		Description: "Send a prompt to the model unchanged and return its reply",
	}, NewOneShotHandler(p))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "language_translator",
		Description: "Translate text from one language into another",
	}, NewTranslateHandler(p))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "few_shot",
		Description: "Answer a question using worked examples of step-by-step reasoning",
	}, NewFewShotHandler(p))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add",
		Description: "Run a tool-using agent that can add numbers together",
	}, NewAddHandler(p))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_document",
		Description: "Extract word count, subject, summary and most common word from a document",
	}, NewProcessDocumentHandler(p))
}

// NewOneShotHandler returns a tool handler for the one-shot pipeline.
// Pass the returned function to mcp.AddTool.
func NewOneShotHandler(p Pipeline) func(context.Context, *mcp.CallToolRequest, OneShotInput) (*mcp.CallToolResult, models.Completion, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input OneShotInput) (*mcp.CallToolResult, models.Completion, error) {
		if err := (models.OneShotRequest{Input: input.Input}).Validate(); err != nil {
			return nil, models.Completion{}, err
		}
		return completion(p.OneShot(ctx, input.Input))
	}
}

// NewTranslateHandler returns a tool handler for the language translator.
func NewTranslateHandler(p Pipeline) func(context.Context, *mcp.CallToolRequest, TranslateInput) (*mcp.CallToolResult, models.Completion, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input TranslateInput) (*mcp.CallToolResult, models.Completion, error) {
		tr := models.TranslateRequest{
			Text:           input.Text,
			InputLanguage:  input.InputLanguage,
			OutputLanguage: input.OutputLanguage,
		}
		if err := tr.Validate(); err != nil {
			return nil, models.Completion{}, err
		}
		return completion(p.Translate(ctx, tr))
	}
}

// NewFewShotHandler returns a tool handler for the few-shot pipeline.
func NewFewShotHandler(p Pipeline) func(context.Context, *mcp.CallToolRequest, FewShotInput) (*mcp.CallToolResult, models.Completion, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FewShotInput) (*mcp.CallToolResult, models.Completion, error) {
		if err := (models.FewShotRequest{Input: input.Input}).Validate(); err != nil {
			return nil, models.Completion{}, err
		}
		return completion(p.FewShot(ctx, input.Input))
	}
}

// NewAddHandler returns a tool handler for the Add agent.
func NewAddHandler(p Pipeline) func(context.Context, *mcp.CallToolRequest, AddInput) (*mcp.CallToolResult, models.AgentAnswer, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AddInput) (*mcp.CallToolResult, models.AgentAnswer, error) {
		if err := (models.AddRequest{Phrase: input.Phrase}).Validate(); err != nil {
			return nil, models.AgentAnswer{}, err
		}
		answer, err := p.Add(ctx, input.Phrase)
		if err != nil {
			return nil, models.AgentAnswer{}, err
		}
		if answer.Steps == nil {
			answer.Steps = []models.AgentStep{}
		}
		return nil, *answer, nil
	}
}

// NewProcessDocumentHandler returns a tool handler for document extraction.
func NewProcessDocumentHandler(p Pipeline) func(context.Context, *mcp.CallToolRequest, ProcessDocumentInput) (*mcp.CallToolResult, parser.TextDocument, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ProcessDocumentInput) (*mcp.CallToolResult, parser.TextDocument, error) {
		if err := (models.ProcessDocumentRequest{Document: input.Document}).Validate(); err != nil {
			return nil, parser.TextDocument{}, err
		}
		doc, err := p.ProcessDocument(ctx, input.Document)
		if err != nil {
			return nil, parser.TextDocument{}, err
		}
		return nil, *doc, nil
	}
}

func completion(c *models.Completion, err error) (*mcp.CallToolResult, models.Completion, error) {
	if err != nil {
		return nil, models.Completion{}, err
	}
	return nil, *c, nil
}
