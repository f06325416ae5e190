package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load env
	_ = godotenv.Load()

	// Load Config. Stdout carries the protocol, so logs go to stderr.
	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	appLogger := log.Logger

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The MCP server is a local operator tool, so requests are not quota checked.
	deps, err := setup.WireGenerator(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "debate-agent",
			Version: "1.0.0",
		}, nil,
	)
	mcpadapter.RegisterTools(server, deps.Generator)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			appLogger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		appLogger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
