package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/api"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging, stdout belongs to the transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg, err := setup.LoadConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load config")
		os.Exit(1)
	}

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, nil, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	// Create MCP Server
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "prompt-agent",
			Version: api.Version,
		}, nil,
	)
	mcpadapter.Register(server, deps.Pipeline)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes (e.g. echo | ./bin/prompt-mcp)
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
