// Package home is the landing screen of the teaching TUI.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screen"
	"github.com/abhisek/rubberduck/internal/screens/history"
	"github.com/abhisek/rubberduck/internal/screens/teach"
	"github.com/abhisek/rubberduck/internal/screens/topic"
	"github.com/abhisek/rubberduck/internal/store"
	"github.com/abhisek/rubberduck/internal/ui/components"
	"github.com/abhisek/rubberduck/internal/ui/layout"
	"github.com/abhisek/rubberduck/internal/ui/theme"
)

const duck = `      __
  ___( o)>
  \ <_. )
   '---'`

// statsWindow bounds the sessions counted in the stats line.
const statsWindow = 30 * 24 * time.Hour

type statsLoadedMsg struct {
	Count int
	Best  int
	Err   error
}

// HomeScreen offers a new session, the history browser and quit.
type HomeScreen struct {
	menu    components.Menu
	archive store.ArchiveRepo

	count int
	best  int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. archive may be nil, in which case the
// history entry is disabled.
func New(svc teach.Service, archive store.ArchiveRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Teach the duck", Shortcut: "t", Hint: "Explain a topic until the duck can pass the exam", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: topic.New(svc, "")}
			}
		}},
		{Label: "Past sessions", Shortcut: "h", Hint: "Review scores and transcripts of ended sessions", Disabled: archive == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(archive)}
			}
		}},
		{Label: "Quit", Shortcut: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{
		menu:    components.NewMenu(items),
		archive: archive,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.archive == nil {
		return nil
	}
	archive := h.archive
	return func() tea.Msg {
		sessions, err := archive.Recent(context.Background(), time.Now().Add(-statsWindow), 0)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		msg := statsLoadedMsg{Count: len(sessions)}
		for _, s := range sessions {
			msg.Best = max(msg.Best, s.Percentage)
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Rubberduck"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "t/h/q", Description: "Shortcut"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		if m.Err == nil {
			h.count, h.best = m.Count, m.Best
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	center := func(text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.DuckName.Render(duck)))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Title.Render("Learn it by teaching it")))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(h.statsLine())))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Width(56).Render(h.menu.View())))
	return b.String()
}

func (h *HomeScreen) statsLine() string {
	if h.count == 0 {
		return "The duck is ready for its first lesson."
	}
	noun := "sessions"
	if h.count == 1 {
		noun = "session"
	}
	return fmt.Sprintf("%d %s in the last 30 days · best readiness %d%%", h.count, noun, h.best)
}
