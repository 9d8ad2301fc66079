package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/rubberduck/internal/app"
)

var teachCmd = &cobra.Command{
	Use:   "teach [topic]",
	Short: "Teach the duck interactively",
	Long:  "Opens a chat with the duck. Enter sends an answer, Ctrl+E asks for an evaluation and Esc ends the session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTeach(cmd, strings.Join(args, " "))
	},
}

// runTeach launches the TUI. Logs go to a file beside the database so they
// do not draw over the screen.
func runTeach(cmd *cobra.Command, topic string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	logPath := filepath.Join(filepath.Dir(dbPath), "rubberduck.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	level, _ := cfg.SlogLevel()
	setupLogger(logFile, level, false)

	rt, err := buildRuntime(cmd, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(app.Options{
		Service: rt.service,
		Archive: rt.store.ArchiveRepo(),
		Topic:   topic,
	})
}
