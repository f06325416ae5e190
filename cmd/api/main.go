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

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/api"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/setup/logger"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	appLogger := log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close dependencies")
		}
	}()

	// API
	handler := api.NewHandler(deps.Generator, deps.Quota, deps.Logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	api.RegisterOpenAPI(container)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info().Str("address", addr).Msg("Starting Debate Agent API")

	server := http.Server{
		Addr:              addr,
		Handler:           corsHandler.Handler(container),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server failed")
		return
	}

	log.Info().Msg("Server stopped")
}
