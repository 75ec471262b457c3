package stream

import "github.com/povarna/generative-ai-agents/prompt-agent/internal/stream/redis"

type StreamConfig struct {
	Provider    string // redis is the only provider
	RedisConfig *redis.RedisStreamConfig
}

func NewStreamConfig(provider string, redisConfig *redis.RedisStreamConfig) *StreamConfig {
	return &StreamConfig{
		Provider:    provider,
		RedisConfig: redisConfig,
	}
}
