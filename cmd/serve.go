package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/rubberduck/internal/api"
	"github.com/abhisek/rubberduck/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the teaching-session HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		level, _ := cfg.SlogLevel()
		setupLogger(os.Stdout, level, true)

		rt, err := buildRuntime(cmd, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := rt.Close(); closeErr != nil {
				slog.Error("failed to close store", "error", closeErr)
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := rt.store.Ping(ctx); err != nil {
			return fmt.Errorf("database health check: %w", err)
		}
		slog.Info("database connected", "path", rt.dbPath)

		rt.registry.StartJanitor(ctx, cfg.JanitorInterval, func(s session.TeachingSession) {
			slog.Debug("janitor removed session", "session_id", s.ID, "topic", s.Topic)
		})

		srv := &http.Server{
			Addr: cfg.Addr,
			Handler: api.NewRouter(api.Deps{
				Sessions: rt.service,
				Archive:  rt.store.ArchiveRepo(),
				DB:       rt.store,
			}),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server listening", "addr", srv.Addr, "scoring", cfg.Scoring)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		case <-ctx.Done():
		}
		stop()

		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides RUBBERDUCK_ADDR, default :8080)")
}
