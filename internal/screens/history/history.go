package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/evaluation"
	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screen"
	"github.com/abhisek/rubberduck/internal/screens/summary"
	"github.com/abhisek/rubberduck/internal/store"
	"github.com/abhisek/rubberduck/internal/ui/layout"
	"github.com/abhisek/rubberduck/internal/ui/theme"
)

// Window is how far back the screen looks for ended sessions.
const Window = 30 * 24 * time.Hour

const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.ArchivedSession
	Err      error
}

// HistoryScreen lists archived sessions from the last 30 days.
type HistoryScreen struct {
	archive  store.ArchiveRepo
	now      func() time.Time
	sessions []store.ArchivedSession
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(archive store.ArchiveRepo) *HistoryScreen {
	return &HistoryScreen{
		archive:  archive,
		now:      time.Now,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	archive, since := s.archive, s.now().Add(-Window)
	return func() tea.Msg {
		sessions, err := archive.Recent(context.Background(), since, pageSize)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past sessions"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions in the last 30 days. Go teach the duck something!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-28s  %5s  %3d%% ready",
			prefix,
			sess.EndedAt.Local().Format("Jan 02, 2006"),
			truncate(sess.Topic, 28),
			summary.FormatDuration(time.Duration(sess.DurationMs)*time.Millisecond),
			sess.Percentage)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("%s · score %d · %d evaluations\n%s",
				evaluation.CategoryFor(sess.FinalScore), sess.FinalScore,
				sess.EvaluationCount, sess.Assessment)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Evaluation.Width(min(width-8, 72)).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
