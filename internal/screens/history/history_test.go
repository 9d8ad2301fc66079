package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/store"
)

type stubArchive struct {
	sessions []store.ArchivedSession
	err      error
	since    time.Time
}

func (a *stubArchive) Save(context.Context, *store.ArchivedSession) error { return nil }

func (a *stubArchive) Get(context.Context, string) (*store.ArchivedSession, error) {
	return nil, nil
}

func (a *stubArchive) Recent(_ context.Context, since time.Time, _ int) ([]store.ArchivedSession, error) {
	a.since = since
	return a.sessions, a.err
}

func loaded(t *testing.T, s *HistoryScreen) *HistoryScreen {
	t.Helper()
	scr, _ := s.Update(s.Init()())
	return scr.(*HistoryScreen)
}

func TestHistoryScreen_LoadsLastThirtyDays(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	archive := &stubArchive{}
	s := New(archive)
	s.now = func() time.Time { return now }

	loaded(t, s)
	if want := now.Add(-30 * 24 * time.Hour); !archive.since.Equal(want) {
		t.Errorf("since = %v, want %v", archive.since, want)
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, New(&stubArchive{}))
	if !strings.Contains(s.View(100, 30), "No sessions in the last 30 days") {
		t.Error("expected empty-state message")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loaded(t, New(&stubArchive{err: errors.New("disk on fire")}))
	if !strings.Contains(s.View(100, 30), "disk on fire") {
		t.Error("expected error in view")
	}
}

func TestHistoryScreen_ListAndExpand(t *testing.T) {
	archive := &stubArchive{sessions: []store.ArchivedSession{
		{SessionID: "session_2_bbbbbbb", Topic: "recursion", EndedAt: time.Now(), DurationMs: 65000, FinalScore: 600, Percentage: 75, Assessment: "Nicely done.", EvaluationCount: 8},
		{SessionID: "session_1_aaaaaaa", Topic: "photosynthesis", EndedAt: time.Now().Add(-time.Hour), Percentage: 10},
	}}
	s := loaded(t, New(archive))

	view := s.View(120, 40)
	for _, want := range []string{"recursion", "photosynthesis", "1:05", "75% ready"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "Nicely done.") {
		t.Error("details should be hidden until expanded")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 40), "Nicely done.") {
		t.Error("expected assessment after Enter")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(&stubArchive{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestHistoryScreen_WithStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	now := time.Now()
	for _, a := range []store.ArchivedSession{
		{SessionID: "session_recent", Topic: "graphs", StartedAt: now.Add(-time.Hour), EndedAt: now.Add(-50 * time.Minute)},
		{SessionID: "session_old", Topic: "sorting", StartedAt: now.AddDate(0, 0, -45), EndedAt: now.AddDate(0, 0, -45)},
	} {
		if err := st.ArchiveRepo().Save(ctx, &a); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	s := loaded(t, New(st.ArchiveRepo()))
	if len(s.sessions) != 1 || s.sessions[0].SessionID != "session_recent" {
		t.Fatalf("sessions = %+v, want only session_recent", s.sessions)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("binary search trees", 8); got != "binary …" {
		t.Errorf("truncate = %q", got)
	}
}
