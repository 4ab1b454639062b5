package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-highlight-recoder/internal/api"
	"github.com/a3tai/mcp-highlight-recoder/internal/config"
	"github.com/a3tai/mcp-highlight-recoder/internal/logging"
	"github.com/a3tai/mcp-highlight-recoder/internal/mcp"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newService builds the pipeline service from the configuration
func newService(cfg *config.Config) (*pipeline.Service, error) {
	return pipeline.NewService(pipeline.Config{
		Directory:     cfg.DocumentDirectory,
		MaxFileSize:   cfg.MaxFileSize,
		MaxPages:      cfg.MaxPages,
		YThreshold:    cfg.YThreshold,
		CacheSize:     cfg.CacheSize,
		CacheTTL:      cfg.CacheTTL,
		ConverterPath: cfg.ConverterPath,
	})
}

// runServerMode serves the HTTP API and MCP over SSE until ctx is cancelled
func runServerMode(ctx context.Context, cfg *config.Config, service *pipeline.Service, server *mcp.Server) error {
	log.Info().
		Str("addr", cfg.Address()).
		Str("directory", cfg.DocumentDirectory).
		Msg("starting highlight recoder in server mode")

	return api.NewServer(cfg, service, server.SSEHandler()).Run(ctx)
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server) error {
	// In stdio mode, the parent process controls our lifecycle
	// and we exit when stdin is closed
	return server.Run(ctx)
}

func run(cfg *config.Config) error {
	service, err := newService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer service.Close()

	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cfg, service, server)
	}
	return runStdioMode(ctx, server)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol in stdio mode
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.IsStdioMode())

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	log.Debug().Msgf("Starting with configuration: %s", cfg.String())

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped successfully")
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Highlight Recoder\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
