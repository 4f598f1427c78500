package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crewdeskhq/crewdesk/internal/analyzer"
	"github.com/crewdeskhq/crewdesk/internal/brain"
	"github.com/crewdeskhq/crewdesk/internal/chat"
	"github.com/crewdeskhq/crewdesk/internal/chatlog"
	"github.com/crewdeskhq/crewdesk/internal/config"
	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/kvstore"
	"github.com/crewdeskhq/crewdesk/internal/notify"
	"github.com/crewdeskhq/crewdesk/internal/registry"
	"github.com/crewdeskhq/crewdesk/internal/router"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "crewdesk",
		Short: "crewdesk - AI employee workspace",
		Long:  "Crewdesk manages a team of configurable AI employee personas, a per-user knowledge brain, and per-persona conversation logs, with a keyword router matching questions to personas.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		personaCmd(),
		brainCmd(),
		chatCmd(),
		routeCmd(),
		seedCmd(),
		analyzeCmd(),
		statsCmd(),
		serveCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// workspace bundles the wired core services for one command invocation.
type workspace struct {
	kv       kvstore.KV
	entities *entity.Store
	registry *registry.Registry
	brain    *brain.Store
	chatlog  *chatlog.Log
	chat     *chat.Service
	router   router.Router
	analyzer analyzer.Analyzer
}

// openWorkspace opens the persistent medium and wires the core services.
// Without an API key the deterministic stub serves analysis and chat.
func openWorkspace(logger *slog.Logger) (*workspace, error) {
	kv, err := kvstore.NewSQLiteKV(cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage at %s: %w", cfg.Storage.Path, err)
	}

	entities := entity.NewStore(kv, logger)
	reg := registry.New(entities, logger)
	br := brain.New(entities, logger)
	log := chatlog.New(entities, logger)

	var an analyzer.Analyzer
	if cfg.Claude.HasAPIKey() {
		an = analyzer.NewBreaker(analyzer.NewClaude(cfg.Claude.APIKey, cfg.Claude.Model, logger), logger)
	} else {
		logger.Info("no API key configured; using simulated analysis")
		an = analyzer.NewStub(cfg.Analyzer.StubDelay(), logger)
	}

	notifier := notify.NewLogNotifier(logger)

	return &workspace{
		kv:       kv,
		entities: entities,
		registry: reg,
		brain:    br,
		chatlog:  log,
		chat:     chat.NewService(reg, log, an, notifier, logger),
		router:   router.New(logger),
		analyzer: an,
	}, nil
}

// Close releases the workspace's storage handle.
func (w *workspace) Close() error {
	return w.kv.Close()
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
