package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/download"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	url := flag.String("url", download.DefaultURL, "Model file URL")
	dest := flag.String("o", download.DefaultPath, "Destination path")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Large file, be prepared to wait.
	if _, err := download.NewDownloader(nil, &logger).Download(ctx, *url, *dest); err != nil {
		logger.Error().Err(err).Msg("Download failed")
		os.Exit(1)
	}
}
