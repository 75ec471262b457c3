package stream

import (
	"context"
	"fmt"

	red "github.com/povarna/generative-ai-agents/prompt-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	runner redis.Runner,
	recorder redis.Recorder,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := red.ConnectRedis(ctx, red.Options{
			Addr:       cfg.RedisConfig.RedisAddr,
			Password:   cfg.RedisConfig.RedisPassword,
			MaxRetries: 5,
		}, logger)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, runner, recorder, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
