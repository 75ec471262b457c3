// Package pipeline assembles the prompt patterns into request/response pipelines:
// fill a template, call the model, optionally parse the reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/prompt"
	"github.com/rs/zerolog"
)

var ErrUnknownPipeline = errors.New("unknown pipeline")

const (
	OneShot            = "one-shot"
	LanguageTranslator = "language-translator"
	FewShot            = "few-shot"
	Add                = "add"
	ProcessDocument    = "process-document"
)

// Names lists the pipelines Run accepts.
var Names = []string{OneShot, LanguageTranslator, FewShot, Add, ProcessDocument}

type Service struct {
	client llm.Client
	logger *zerolog.Logger

	oneShot      *prompt.Template
	oneShotModel config.ModelConfig

	translator      *prompt.ChatTemplate
	translatorModel config.ModelConfig

	fewShot      *prompt.FewShotTemplate
	fewShotModel config.ModelConfig

	extraction      *prompt.Template
	extractionModel config.ModelConfig
	documentParser  *parser.Parser[parser.TextDocument]

	agent *agent.Agent
}

func NewService(cfg *config.PromptsConfig, client llm.Client, logger *zerolog.Logger) (*Service, error) {
	p := cfg.Prompts
	s := &Service{
		client:          client,
		logger:          logger,
		oneShotModel:    modelOf(p.OneShot.Model, p.DefaultModel),
		translatorModel: modelOf(p.LanguageTranslator.Model, p.DefaultModel),
		fewShotModel:    modelOf(p.FewShot.Model, p.DefaultModel),
		extractionModel: modelOf(p.ProcessDocument.Model, p.DefaultModel),
	}

	var err error
	if s.oneShot, err = prompt.NewTemplate(OneShot, p.OneShot.Template, p.OneShot.InputVariables); err != nil {
		return nil, err
	}

	if s.translator, err = buildChat(p.LanguageTranslator); err != nil {
		return nil, err
	}

	if s.fewShot, err = buildFewShot(p.FewShot); err != nil {
		return nil, err
	}

	if s.documentParser, err = parser.TextDocumentParser(); err != nil {
		return nil, err
	}
	s.extraction, err = prompt.NewTemplate(
		ProcessDocument,
		p.ProcessDocument.Template,
		p.ProcessDocument.InputVariables,
		prompt.WithPartials(map[string]string{"format_instructions": s.documentParser.FormatInstructions()}),
	)
	if err != nil {
		return nil, err
	}

	agentModel := modelOf(p.Agent.Model, p.DefaultModel)
	s.agent, err = agent.NewAgent(client, []agent.Tool{agent.AddTool{}}, agent.Config{
		MaxIterations: p.Agent.MaxIterations,
		MaxTokens:     agentModel.MaxTokens,
		Temperature:   agentModel.Temperature,
	}, logger)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) OneShot(ctx context.Context, input string) (*models.Completion, error) {
	return s.runOneShot(ctx, map[string]string{"input": input})
}

// OneShotStream forwards each generated chunk to callback and returns the full completion.
func (s *Service) OneShotStream(ctx context.Context, input string, callback llm.StreamCallback) (*models.Completion, error) {
	text, err := s.oneShot.Format(map[string]string{"input": input})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.InvokeModelStream(ctx, s.userRequest(text, s.oneShotModel), callback)
	if err != nil {
		return nil, fmt.Errorf("one-shot stream: %w", err)
	}
	return toCompletion(resp), nil
}

func (s *Service) Translate(ctx context.Context, req models.TranslateRequest) (*models.Completion, error) {
	return s.runTranslate(ctx, map[string]string{
		"text":            req.Text,
		"input_language":  req.InputLanguage,
		"output_language": req.OutputLanguage,
	})
}

func (s *Service) FewShot(ctx context.Context, input string) (*models.Completion, error) {
	return s.runFewShot(ctx, map[string]string{"input": input})
}

func (s *Service) Add(ctx context.Context, phrase string) (*models.AgentAnswer, error) {
	result, err := s.agent.Run(ctx, phrase)
	if err != nil {
		return nil, fmt.Errorf("add agent: %w", err)
	}

	answer := &models.AgentAnswer{Output: result.Output, Steps: make([]models.AgentStep, 0, len(result.Steps))}
	for _, step := range result.Steps {
		answer.Steps = append(answer.Steps, models.AgentStep{
			Action:      step.Action,
			Input:       string(step.Input),
			Observation: step.Observation,
		})
	}
	return answer, nil
}

func (s *Service) ProcessDocument(ctx context.Context, document string) (*parser.TextDocument, error) {
	return s.runProcessDocument(ctx, map[string]string{"input": document})
}

// Run executes a pipeline by name with raw template values, for asynchronous jobs.
func (s *Service) Run(ctx context.Context, job models.Job) (any, error) {
	switch job.Pipeline {
	case OneShot:
		return s.runOneShot(ctx, job.Inputs)
	case LanguageTranslator:
		return s.runTranslate(ctx, job.Inputs)
	case FewShot:
		return s.runFewShot(ctx, job.Inputs)
	case Add:
		input, ok := job.Inputs["input"]
		if !ok {
			return nil, fmt.Errorf("%w: input", prompt.ErrMissingVariable)
		}
		return s.Add(ctx, input)
	case ProcessDocument:
		return s.runProcessDocument(ctx, job.Inputs)
	default:
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownPipeline, job.Pipeline, Names)
	}
}

func (s *Service) runOneShot(ctx context.Context, values map[string]string) (*models.Completion, error) {
	text, err := s.oneShot.Format(values)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.InvokeModel(ctx, s.userRequest(text, s.oneShotModel))
	if err != nil {
		return nil, fmt.Errorf("one-shot: %w", err)
	}
	return toCompletion(resp), nil
}

func (s *Service) runTranslate(ctx context.Context, values map[string]string) (*models.Completion, error) {
	messages, err := s.translator.FormatMessages(values)
	if err != nil {
		return nil, err
	}
	if rendered, err := s.translator.Format(values); err == nil {
		s.logger.Debug().Str("prompt", rendered).Msg("Translator prompt")
	}

	resp, err := s.client.InvokeModel(ctx, llm.Request{
		Messages:    messages,
		MaxTokens:   s.translatorModel.MaxTokens,
		Temperature: s.translatorModel.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("language translator: %w", err)
	}
	return toCompletion(resp), nil
}

func (s *Service) runFewShot(ctx context.Context, values map[string]string) (*models.Completion, error) {
	text, err := s.fewShot.Format(values)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.InvokeModel(ctx, s.userRequest(text, s.fewShotModel))
	if err != nil {
		return nil, fmt.Errorf("few-shot: %w", err)
	}
	return toCompletion(resp), nil
}

func (s *Service) runProcessDocument(ctx context.Context, values map[string]string) (*parser.TextDocument, error) {
	text, err := s.extraction.Format(values)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.InvokeModel(ctx, llm.Request{
		Prompt:      text,
		MaxTokens:   s.extractionModel.MaxTokens,
		Temperature: s.extractionModel.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("process document: %w", err)
	}

	doc, err := s.documentParser.Parse(resp.Content)
	if err != nil {
		s.logger.Warn().Err(err).Str("content", resp.Content).Msg("Model output did not match the document schema")
		return nil, err
	}
	return &doc, nil
}

func (s *Service) userRequest(text string, model config.ModelConfig) llm.Request {
	return llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: text}},
		MaxTokens:   model.MaxTokens,
		Temperature: model.Temperature,
	}
}

func toCompletion(resp *llm.Response) *models.Completion {
	return &models.Completion{
		Content:    resp.Content,
		StopReason: resp.StopReason,
		Model:      resp.Model,
	}
}

func modelOf(m *config.ModelConfig, defaults config.ModelConfig) config.ModelConfig {
	if m == nil {
		return defaults
	}
	return *m
}
