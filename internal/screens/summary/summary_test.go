package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rubberduck/internal/evaluation"
	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/session"
)

func testResult() *session.EndResult {
	return &session.EndResult{
		SessionID:       "session_1_abcdefg",
		Topic:           "binary search trees",
		Status:          session.StatusCompleted,
		FinalScore:      420,
		Percentage:      evaluation.PercentageFor(420),
		Category:        evaluation.CategoryFor(420),
		Assessment:      evaluation.FinalAssessment(420),
		EvaluationCount: 6,
		DurationMs:      (4*time.Minute + 5*time.Second).Milliseconds(),
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult()).View(100, 30)
	for _, want := range []string{"binary search trees", "4:05", "Solid understanding", "Great job!"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestSummaryScreen_NilResult(t *testing.T) {
	if v := New(nil).View(80, 24); v != "" {
		t.Errorf("expected empty view, got %q", v)
	}
}

func TestSummaryScreen_EnterLeaves(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
		{Code: 'q', Text: "q"},
	} {
		s := New(testResult())
		_, cmd := s.Update(key)
		if cmd == nil {
			t.Fatalf("expected a command on %s", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected %s to pop the summary", key.String())
		}
	}
}

func TestSummaryScreen_OtherKeysIgnored(t *testing.T) {
	s := New(testResult())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil {
		t.Error("expected no command for unrelated keys")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59 * time.Second, "0:59"},
		{61*time.Second + 600*time.Millisecond, "1:02"},
		{75 * time.Minute, "75:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
