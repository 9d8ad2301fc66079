package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screen"
	"github.com/abhisek/rubberduck/internal/session"
	"github.com/abhisek/rubberduck/internal/ui/components"
	"github.com/abhisek/rubberduck/internal/ui/layout"
	"github.com/abhisek/rubberduck/internal/ui/theme"
)

// SummaryScreen shows the outcome of an ended session.
type SummaryScreen struct {
	result *session.EndResult
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for result.
func New(result *session.EndResult) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	if res == nil {
		return ""
	}

	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(center(theme.Title, "Class dismissed!"))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Subtitle, fmt.Sprintf("You taught the duck about %s for %s",
		res.Topic, FormatDuration(time.Duration(res.DurationMs)*time.Millisecond))))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewScoreBar("Exam readiness", res.Percentage, barWidth).View()))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Body, fmt.Sprintf("Score: %d    Evaluations: %d    %s",
		res.FinalScore, res.EvaluationCount, res.Category)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(min(width-4, 72)).Render(res.Assessment)))

	return b.String()
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	d = max(0, d).Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
