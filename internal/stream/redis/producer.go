package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/redis/go-redis/v9"
)

type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	if stream == "" {
		stream = DefaultJobStream
	}
	return &Producer{client: client, stream: stream}
}

// Publish appends the job to the stream and returns the entry ID.
func (p *Producer) Publish(ctx context.Context, job models.Job) (string, error) {
	if job.Pipeline == "" {
		return "", fmt.Errorf("%w: pipeline is required", models.ErrInvalidRequest)
	}
	data, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{PayloadField: string(data)},
	}).Result()
}
