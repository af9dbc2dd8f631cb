// Package main provides the entry point for planr-service.
//
// planr-service is a standalone service providing:
// - REST API for plan generation
// - Web UI (browser chat) for interactive planning
// - MCP server for agent integration
// - Plan history with optional similarity search
//
// Usage:
//
//	planr-service                   Start the service (default)
//	planr-service serve             Start the service
//	planr-service version           Show version
//	planr-service status            Show service status
//	planr-service stop              Stop the running service
//	planr-service mcp               Start MCP server (stdio mode)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/planr/internal/api"
	"github.com/ternarybob/planr/internal/config"
	"github.com/ternarybob/planr/internal/logger"
	"github.com/ternarybob/planr/internal/mcp"
	"github.com/ternarybob/planr/internal/service"
	"github.com/ternarybob/planr/pkg/history"
	"github.com/ternarybob/planr/pkg/llm"
	"github.com/ternarybob/planr/pkg/plan"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	// Set version in API package
	api.SetVersion(version)

	if len(os.Args) < 2 {
		// Default: start service
		if err := cmdServe(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var err error
	switch os.Args[1] {
	case "serve", "start":
		err = cmdServe()
	case "version", "-v", "--version":
		cmdVersion()
	case "status":
		err = cmdStatus()
	case "stop":
		err = cmdStop()
	case "mcp", "mcp-server":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`planr-service - Task planning service backed by a local LLM

Usage:
  planr-service [command]

Commands:
  serve         Start the service (default)
  version       Show version information
  status        Show service status
  stop          Stop the running service
  mcp           Start MCP server (stdio mode for agent integration)
  help          Show this help

Environment:
  GOOGLE_GEMINI_API_KEY    API key for the Gemini backend (optional)

Configuration:
  Config file: ~/.planr-service/config.yaml (or $APPDATA/planr-service on Windows)

Examples:
  planr-service                                 Start the service
  planr-service mcp                             Start MCP server
  curl localhost:8520/health                    Check service health
  curl -X POST localhost:8520/generate-plan \
       -d '{"goal":"Launch a product in 2 weeks"}'`)
}

func cmdVersion() {
	fmt.Printf("planr-service version %s\n", version)
}

// buildPlanner assembles the provider router and plan generator from config.
func buildPlanner(cfg *config.Config) (*plan.Generator, *llm.Router, error) {
	providers := []llm.Provider{llm.NewOllamaProvider(cfg.LLM.OllamaURL)}
	if p := llm.NewGeminiProvider(cfg.LLM.GeminiAPIKey, cfg.LLM.Model); p != nil {
		providers = append(providers, p)
	}
	if p := llm.NewAnthropicProvider(cfg.LLM.AnthropicAPIKey); p != nil {
		providers = append(providers, p)
	}
	router := llm.NewRouter(providers...).SetActive(cfg.LLM.Provider)

	if router.Active() == nil {
		return nil, nil, fmt.Errorf("no LLM provider available (is Ollama running at %s?)", cfg.LLM.OllamaURL)
	}

	prompts, err := plan.LoadPrompts(cfg.PromptsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("load prompts: %w", err)
	}

	generator := plan.NewGenerator(router, cfg.LLM.Model,
		plan.WithTemperature(cfg.LLM.Temperature),
		plan.WithMaxTokens(cfg.LLM.MaxTokens),
		plan.WithPrompts(prompts),
	)
	return generator, router, nil
}

func cmdServe() error {
	// Load configuration
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	log := logger.Setup(cfg)
	defer logger.Stop()

	// Check if already running
	if running, pid := service.IsRunning(cfg); running {
		return fmt.Errorf("service already running (PID %d)", pid)
	}

	generator, router, err := buildPlanner(cfg)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.HistoryDir(), cfg.History.Limit)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}

	// Similarity search is optional and requires an Ollama embedding model
	var similar *history.SimilarityIndex
	if cfg.History.Similarity {
		similar, err = history.NewSimilarityIndex(cfg.LLM.OllamaURL, cfg.History.EmbedModel)
		if err != nil {
			log.Warn().Err(err).Msg("Similarity index disabled")
			similar = nil
		}
	}

	// Create API server
	apiServer := api.NewServer(cfg, generator, router, store, similar)

	// Hot-reload the model and prompt overrides without a restart
	watcher, err := config.NewWatcher(func(path string) {
		switch path {
		case config.DefaultConfigPath():
			updated, err := config.Load(path)
			if err != nil {
				log.Warn().Err(err).Msg("Config reload failed")
				return
			}
			generator.SetModel(updated.LLM.Model)
			log.Info().Str("model", updated.LLM.Model).Msg("Config reloaded")
		case cfg.PromptsPath():
			prompts, err := plan.LoadPrompts(path)
			if err != nil {
				log.Warn().Err(err).Msg("Prompt reload failed")
				return
			}
			generator.SetPrompts(prompts)
			log.Info().Msg("Prompts reloaded")
		}
	}, config.DefaultConfigPath(), cfg.PromptsPath())
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	// Create daemon
	daemon := service.NewDaemon(cfg)

	// Start service
	if err := daemon.Start(apiServer.Handler()); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("planr-service v%s started on %s\n", version, cfg.Address())
	fmt.Printf("Web UI: http://%s/\n", cfg.Address())
	fmt.Printf("Model: %s (%s)\n", cfg.LLM.Model, cfg.LLM.Provider)

	// Wait for shutdown signal
	daemon.Wait()

	return nil
}

func cmdStatus() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	running, pid := service.IsRunning(cfg)
	if running {
		fmt.Printf("planr-service: running (PID %d)\n", pid)
		fmt.Printf("Address: %s\n", cfg.Address())
	} else {
		fmt.Println("planr-service: stopped")
	}

	return nil
}

func cmdStop() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	running, pid := service.IsRunning(cfg)
	if !running {
		fmt.Println("planr-service is not running")
		return nil
	}

	fmt.Printf("Stopping planr-service (PID %d)...\n", pid)
	if err := service.StopRunning(cfg); err != nil {
		return err
	}

	fmt.Println("planr-service stopped")
	return nil
}

func cmdMCP() error {
	// Load config, falling back to defaults for a fresh install
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	if strings.EqualFold(cfg.LLM.Provider, "gemini") && cfg.LLM.GeminiAPIKey == "" {
		fmt.Fprintf(os.Stderr, "[planr-service] Warning: GOOGLE_GEMINI_API_KEY not set, falling back to Ollama.\n")
	}

	generator, _, err := buildPlanner(cfg)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.HistoryDir(), cfg.History.Limit)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}

	return mcp.NewServer(generator, store, version).ServeStdio()
}
