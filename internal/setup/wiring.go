package setup

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/llm/ollama"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/pipeline"
	"github.com/rs/zerolog"
)

const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
	ProviderOllama  = "ollama"
)

type Config struct {
	// Model backend
	Provider         string `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey        string `env:"OPENAI_API_KEY"`
	OpenAIModelID    string `env:"OPENAI_MODEL_ID" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	OpenAIMaxRetries int    `env:"OPENAI_MAX_RETRIES" envDefault:"0"`
	AWSRegion        string `env:"AWS_REGION" envDefault:"us-east-1"`
	ClaudeModelID    string `env:"CLAUDE_MODEL_ID"`
	OllamaURL        string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel      string `env:"OLLAMA_MODEL" envDefault:"llama3.2"`

	// Prompts
	PromptsConfigPath string `env:"PROMPTS_CONFIG_PATH"`

	// Server
	APIPort  int    `env:"PROMPT_AGENT_API_PORT" envDefault:"18080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Stream worker
	StreamProvider string `env:"STREAM_PROVIDER" envDefault:"redis"`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:":9090"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	Hostname       string `env:"HOSTNAME" envDefault:"prompt-worker"`
}

type Dependencies struct {
	Pipeline *pipeline.Service
	Prompts  *config.PromptsConfig
	Metrics  metrics.Metrics
	Logger   *zerolog.Logger
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Wire builds the pipeline service and its model backend. A nil recorder
// disables metrics.
func Wire(ctx context.Context, cfg *Config, recorder metrics.Metrics, logger *zerolog.Logger) (*Dependencies, error) {
	if recorder == nil {
		recorder = metrics.Noop{}
	}

	llmClient, err := createLLMClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	llmClient = llm.Instrument(llmClient, cfg.Provider, recorder)

	promptsCfg, err := loadPrompts(cfg.PromptsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	svc, err := pipeline.NewService(promptsCfg, llmClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipelines: %w", err)
	}

	logger.Info().Str("provider", cfg.Provider).Msg("Dependencies wired")

	return &Dependencies{
		Pipeline: svc,
		Prompts:  promptsCfg,
		Metrics:  recorder,
		Logger:   logger,
	}, nil
}

func loadPrompts(path string) (*config.PromptsConfig, error) {
	if path == "" {
		return config.LoadPromptsConfig()
	}
	return config.LoadPromptsConfigFrom(path)
}

func createLLMClient(ctx context.Context, cfg *Config) (llm.Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID, gpt.Options{
			BaseURL:    cfg.OpenAIBaseURL,
			MaxRetries: cfg.OpenAIMaxRetries,
		})
	case ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case ProviderOllama:
		return ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q (valid: openai, bedrock, ollama)", cfg.Provider)
	}
}
