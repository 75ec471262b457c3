package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	red "github.com/povarna/generative-ai-agents/prompt-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON job: {\"pipeline\": \"one-shot\", \"inputs\": {\"input\": \"...\"}}")
	stream := flag.String("stream", redis.DefaultJobStream, "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, stream string) error {
	cfg, err := setup.LoadConfig()
	if err != nil {
		return err
	}

	var job models.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return fmt.Errorf("invalid job JSON: %w", err)
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, red.Options{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		MaxRetries: 3,
	}, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := redis.NewProducer(client, stream).Publish(ctx, job)
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("job_id", job.JobID).Str("pipeline", job.Pipeline).Msg("Published successfully!")
	return nil
}
