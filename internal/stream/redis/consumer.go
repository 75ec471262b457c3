package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/pipeline"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Runner executes a pipeline job.
type Runner interface {
	Run(ctx context.Context, job models.Job) (any, error)
}

// Recorder counts finished jobs.
type Recorder interface {
	IncJobsCompleted(pipeline, status string)
}

type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	runner       Runner
	recorder     Recorder
	logger       *zerolog.Logger
	block        time.Duration
}

// pipelineLabel keeps the metric label set bounded to the known pipelines.
func pipelineLabel(name string) string {
	if slices.Contains(pipeline.Names, name) {
		return name
	}
	return "unknown"
}

type noopRecorder struct{}

func (noopRecorder) IncJobsCompleted(string, string) {}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, runner Runner, recorder Recorder, logger *zerolog.Logger) *Consumer {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		runner:       runner,
		recorder:     recorder,
		logger:       logger,
		block:        2 * time.Second,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("results", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	recovered, err := c.recoverPending(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error().Err(err).Msg("Failed to recover pending messages")
	} else if recovered > 0 {
		c.logger.Info().Int("count", recovered).Msg("Recovered pending messages")
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := c.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error().Err(err).Msg("Failed to read from stream")
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

// poll reads at most one message and processes it. It reports how many
// messages were handled.
func (c *Consumer) poll(ctx context.Context) (int, error) {
	msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.groupID,
		Consumer: c.consumerName,
		Streams:  []string{c.stream, ">"},
		Count:    1,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	n := 0
	for _, s := range msgs {
		for _, msg := range s.Messages {
			c.process(ctx, msg)
			n++
		}
	}
	return n, nil
}

// recoverPending re-runs entries delivered to this consumer but never acknowledged,
// such as jobs whose result could not be published.
func (c *Consumer) recoverPending(ctx context.Context) (int, error) {
	n := 0
	start := "0"
	for {
		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, start},
			Count:    10,
			Block:    -1,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return n, nil
			}
			return n, err
		}

		batch := 0
		for _, s := range msgs {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
				start = msg.ID
				batch++
			}
		}
		if batch == 0 {
			return n, nil
		}
		n += batch
	}
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values[PayloadField].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var job models.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // undecodable, skip it
		return
	}
	if job.JobID == "" {
		job.JobID = msg.ID
	}

	result := c.execute(ctx, job)
	if err := c.publish(ctx, result); err != nil {
		// left pending, recoverPending retries it on the next Start
		c.logger.Error().Err(err).Str("id", msg.ID).Str("job_id", job.JobID).Msg("Failed to publish result")
		return
	}

	c.recorder.IncJobsCompleted(pipelineLabel(job.Pipeline), string(result.Status))
	c.logger.Info().
		Str("id", msg.ID).
		Str("job_id", job.JobID).
		Str("pipeline", job.Pipeline).
		Str("status", string(result.Status)).
		Msg("Job complete")

	c.ack(ctx, msg.ID)
}

func (c *Consumer) execute(ctx context.Context, job models.Job) models.JobResult {
	result := models.JobResult{
		JobID:    job.JobID,
		Pipeline: job.Pipeline,
		Status:   models.JobStatusOK,
	}

	out, err := c.runner.Run(ctx, job)
	if err != nil {
		result.Status = models.JobStatusError
		result.Error = err.Error()
	} else {
		result.Result = out
	}
	result.CompletedAt = time.Now().UTC()
	return result
}

func (c *Consumer) publish(ctx context.Context, result models.JobResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{
			"job_id":     result.JobID,
			PayloadField: string(data),
		},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
