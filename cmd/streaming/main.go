package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/povarna/generative-ai-agents/prompt-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := setup.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Workers log JSON for collectors
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	l := logger.New(cfg.LogLevel, "prompt-worker")
	log.Logger = l

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	prom := metrics.NewProm(metrics.Namespace)
	deps, err := setup.Wire(ctx, cfg, prom, &l)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}

	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr, &l); err != nil {
			l.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	streamCfg := stream.NewStreamConfig(
		cfg.StreamProvider,
		redis.NewRedisStreamConfig(
			cfg.RedisAddr,
			cfg.RedisPassword,
			redis.DefaultJobStream,
			redis.DefaultResultStream,
			redis.DefaultGroup,
			cfg.Hostname,
		),
	)

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Pipeline, prom, &l)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	l.Info().Msg("Shutting down...")

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		l.Warn().Msg("Consumer did not stop in time")
	}
	if err := consumer.Stop(); err != nil {
		l.Warn().Err(err).Msg("Failed to close stream client")
	}

	l.Info().Msg("Prompt worker stopped")
}
