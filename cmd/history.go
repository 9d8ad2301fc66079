package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/rubberduck/internal/screens/summary"
	"github.com/abhisek/rubberduck/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived teaching sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently ended sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("limit")
		if days <= 0 {
			return fmt.Errorf("--days must be positive")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		since := time.Now().AddDate(0, 0, -days)
		sessions, err := s.ArchiveRepo().Recent(cmd.Context(), since, limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintf(out, "No sessions in the last %d days.\n", days)
			return nil
		}

		t := newTable([]string{"Session", "Ended", "Topic", "Score", "Ready", "Time"}, 3, 4, 5)
		for _, a := range sessions {
			t.Row(
				a.SessionID,
				a.EndedAt.Local().Format("2006-01-02 15:04"),
				truncate(a.Topic, 28),
				strconv.Itoa(a.FinalScore),
				fmt.Sprintf("%d%%", a.Percentage),
				summary.FormatDuration(time.Duration(a.DurationMs)*time.Millisecond),
			)
		}
		printTable(out, t)
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <session-id>",
	Short: "Show an archived session with its transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.ArchiveRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if a == nil {
			return fmt.Errorf("session %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s · %s\n", a.Topic, a.StartedAt.Local().Format(time.DateTime))
		fmt.Fprintf(out, "Score %d (%d%% ready) after %d evaluations in %s\n",
			a.FinalScore, a.Percentage, a.EvaluationCount,
			summary.FormatDuration(time.Duration(a.DurationMs)*time.Millisecond))
		if a.Assessment != "" {
			fmt.Fprintf(out, "\n%s\n", a.Assessment)
		}

		var transcript strings.Builder
		for _, m := range a.Transcript {
			switch m.Role {
			case "assistant":
				fmt.Fprintf(&transcript, "Duck: %s\n", m.Content)
			case "user":
				fmt.Fprintf(&transcript, "You:  %s\n", m.Content)
			}
		}
		section(out, "Transcript", strings.TrimSuffix(transcript.String(), "\n"))
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	historyListCmd.Flags().Int("days", 30, "Look back this many days")
	historyListCmd.Flags().IntP("limit", "n", 50, "Number of sessions to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
