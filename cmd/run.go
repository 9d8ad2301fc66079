package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/rubberduck/internal/config"
	"github.com/abhisek/rubberduck/internal/duck"
	"github.com/abhisek/rubberduck/internal/llm"
	"github.com/abhisek/rubberduck/internal/session"
	"github.com/abhisek/rubberduck/internal/store"
)

// runtime bundles the dependencies shared by serve and teach.
type runtime struct {
	cfg      *config.Config
	store    *store.Store
	registry *session.Registry
	service  *session.Service
	dbPath   string
}

func (r *runtime) Close() error {
	return r.store.Close()
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if s, _ := cmd.Flags().GetString("scoring"); s != "" {
		cfg.Scoring = strings.ToLower(s)
	}
	if cmd.Flags().Lookup("addr") != nil {
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			cfg.Addr = a
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildRuntime opens the store and wires the session service.
func buildRuntime(cmd *cobra.Command, cfg *config.Config) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	collaborator, err := buildCollaborator(ctx, cmd, st.EventRepo())
	if err != nil {
		st.Close()
		return nil, err
	}

	registry := session.NewRegistry(session.RegistryConfig{
		IdleTimeout: cfg.IdleTimeout,
		Retention:   cfg.Retention,
	})
	svc := session.NewService(session.Options{
		Registry:     registry,
		Collaborator: collaborator,
		Scoring:      session.ScoringStrategy(cfg.Scoring),
		Events:       st.EventRepo(),
		Archive:      st.ArchiveRepo(),
	})

	return &runtime{cfg: cfg, store: st, registry: registry, service: svc, dbPath: dbPath}, nil
}

// buildCollaborator picks the duck's brain. Without a configured provider,
// or with the mock provider, the offline template duck is used.
func buildCollaborator(ctx context.Context, cmd *cobra.Command, events store.EventRepo) (duck.Collaborator, error) {
	var (
		provider llm.Provider
		err      error
	)
	if name, _ := cmd.Flags().GetString("provider"); name != "" {
		cfg := llm.ConfigFromEnv()
		cfg.Provider = name
		provider, err = llm.NewProvider(ctx, cfg, events)
		if err != nil {
			return nil, fmt.Errorf("LLM provider %s: %w", name, err)
		}
	} else {
		provider, err = llm.NewProviderFromEnv(ctx, events)
		if errors.Is(err, llm.ErrNotConfigured) {
			slog.Info("no LLM provider configured, using the offline duck")
			return duck.NewOfflineCollaborator(), nil
		}
		if err != nil {
			slog.Warn("LLM provider unavailable, using the offline duck", "error", err)
			return duck.NewOfflineCollaborator(), nil
		}
	}

	if _, ok := provider.(*llm.MockProvider); ok {
		return duck.NewOfflineCollaborator(), nil
	}
	slog.Info("duck collaborator ready", "model", provider.ModelID())
	return duck.NewLLMCollaborator(provider, duck.DefaultConfig()), nil
}

// setupLogger installs the default slog logger.
func setupLogger(w io.Writer, level slog.Level, json bool) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}
