package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/rubberduck/internal/store"
)

func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duck.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	events := []store.LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "scoring",
			InputTokens: 1200, OutputTokens: 4, LatencyMs: 310, Success: true,
			RequestBody: "[system]\ngrade it", ResponseBody: `{"score":64}`},
		{Provider: "ollama", Model: "qwen3:8b", Purpose: "follow-up",
			InputTokens: 300, OutputTokens: 20, LatencyMs: 900, Success: true},
		{Provider: "ollama", Model: "qwen3:8b", Purpose: "follow-up",
			LatencyMs: 30000, ErrorMessage: "context deadline exceeded"},
	}
	for _, e := range events {
		require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, e))
	}

	ended := time.Now().Add(-time.Hour)
	require.NoError(t, s.ArchiveRepo().Save(ctx, &store.ArchivedSession{
		SessionID:       "sess-heaps",
		Topic:           "heaps",
		StartedAt:       ended.Add(-4 * time.Minute),
		EndedAt:         ended,
		DurationMs:      (4 * time.Minute).Milliseconds(),
		FinalScore:      600,
		Percentage:      75,
		Assessment:      "Your duck is getting there.",
		EvaluationCount: 3,
		Transcript: []store.TranscriptEntry{
			{Role: "system", Content: "Learning about heaps"},
			{Role: "assistant", Content: "What is a heap?"},
			{Role: "user", Content: "A tree where parents beat children."},
		},
	}))
	return path
}

// runInspect runs one of the read-only inspection commands against dbPath
// and returns what it printed.
func runInspect(t *testing.T, target *cobra.Command, dbPath string, args []string, flags map[string]string) string {
	t.Helper()
	c := &cobra.Command{Use: target.Use}
	c.Flags().String("db", dbPath, "")
	c.Flags().AddFlagSet(target.LocalFlags())
	for k, v := range flags {
		require.NoError(t, c.Flags().Set(k, v))
	}
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetContext(context.Background())

	require.NoError(t, target.RunE(c, args))
	return out.String()
}

func TestLLMList(t *testing.T) {
	db := seededDB(t)

	out := runInspect(t, llmListCmd, db, nil, map[string]string{"limit": "20", "purpose": "", "since": "0s"})
	assert.Contains(t, out, "scoring")
	assert.Contains(t, out, "claude-haiku-4-5-20251001")
	assert.Contains(t, out, "failed")

	out = runInspect(t, llmListCmd, db, nil, map[string]string{"limit": "20", "purpose": "scoring", "since": "0s"})
	assert.NotContains(t, out, "follow-up")
}

func TestLLMView(t *testing.T) {
	db := seededDB(t)

	out := runInspect(t, llmViewCmd, db, []string{"1"}, nil)
	assert.Contains(t, out, "Call 1 · scoring")
	assert.Contains(t, out, "── Prompt")
	assert.Contains(t, out, "grade it")
	assert.Contains(t, out, `{"score":64}`)

	out = runInspect(t, llmViewCmd, db, []string{"2"}, nil)
	assert.Contains(t, out, "(not captured)")

	c := &cobra.Command{}
	c.Flags().String("db", db, "")
	c.SetContext(context.Background())
	assert.Error(t, llmViewCmd.RunE(c, []string{"99"}))
	assert.Error(t, llmViewCmd.RunE(c, []string{"abc"}))
}

func TestLLMStats(t *testing.T) {
	db := seededDB(t)

	out := runInspect(t, llmStatsCmd, db, nil, nil)
	assert.Contains(t, out, "follow-up")
	assert.Contains(t, out, "$0.0012")
	assert.Contains(t, out, "total (priced models)")
	assert.Contains(t, out, "No price known for qwen3:8b.")
}

func TestHistoryCommands(t *testing.T) {
	db := seededDB(t)

	out := runInspect(t, historyListCmd, db, nil, map[string]string{"days": "30", "limit": "50"})
	assert.Contains(t, out, "sess-heaps")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "4:00")

	out = runInspect(t, historyViewCmd, db, []string{"sess-heaps"}, nil)
	assert.Contains(t, out, "Score 600 (75% ready) after 3 evaluations")
	assert.Contains(t, out, "Duck: What is a heap?")
	assert.Contains(t, out, "You:  A tree where parents beat children.")
	assert.NotContains(t, out, "Learning about heaps")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00122))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
