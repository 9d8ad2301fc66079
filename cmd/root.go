package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/rubberduck/internal/config"
	"github.com/abhisek/rubberduck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "rubberduck",
	Short: "Learn by teaching a curious rubber duck",
	Long: "Rubberduck: explain a topic to a duck that asks follow-up questions and " +
		"predicts how well it would do on an exam after your lesson.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTeach(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides RUBBERDUCK_DB env var)")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter, ollama or mock (overrides RUBBERDUCK_LLM_PROVIDER)")
	rootCmd.PersistentFlags().String("scoring", "", "Answer scoring: rules or llm (overrides RUBBERDUCK_SCORING)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(teachCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then RUBBERDUCK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
