package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/api"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/setup"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Prompt Agent API",
			Description: "Prompt templates, few-shot prompting, a tool-calling agent and structured extraction",
			Version:     api.Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "prompts", Description: "Template-driven prompt pipelines"}},
		{TagProps: spec.TagProps{Name: "agents", Description: "Tool-calling agents"}},
		{TagProps: spec.TagProps{Name: "extraction", Description: "Structured output extraction"}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := setup.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	logger := log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prom := metrics.NewProm(metrics.Namespace)
	deps, err := setup.Wire(ctx, cfg, prom, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}

	handler := api.NewHandler(deps.Pipeline, &logger)
	container := restful.NewContainer()

	// Add filters
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	// register API
	api.RegisterRoutes(container, handler, middleware.Metrics(prom))

	openAPI := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(openAPI))
	container.Handle("/metrics", metrics.Handler())

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Info().Str("address", addr).Str("provider", cfg.Provider).Msg("Starting Prompt Agent API")

	server := &http.Server{
		Addr:        addr,
		Handler:     corsHandler.Handler(container),
		ReadTimeout: 15 * time.Second,
		// agent runs and streams outlive the usual 15s
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
	log.Info().Msg("Prompt Agent API stopped")
}
