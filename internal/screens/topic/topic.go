// Package topic is the first screen: pick what to teach the duck.
package topic

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screen"
	"github.com/abhisek/rubberduck/internal/screens/teach"
	"github.com/abhisek/rubberduck/internal/session"
	"github.com/abhisek/rubberduck/internal/ui/components"
	"github.com/abhisek/rubberduck/internal/ui/layout"
	"github.com/abhisek/rubberduck/internal/ui/theme"
)

const banner = `   __
 <(o )___
  ( ._> /
   '---'`

type startedMsg struct {
	Result *session.StartResult
	Err    error
}

// TopicScreen asks for a topic and starts the session.
type TopicScreen struct {
	svc      teach.Service
	input    components.TextInput
	initial  string
	starting bool
	errMsg   string
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)

// New creates the topic screen. A non-empty initial topic starts the
// session right away.
func New(svc teach.Service, initial string) *TopicScreen {
	return &TopicScreen{
		svc:     svc,
		input:   components.NewTextInput("e.g. binary search trees", 48),
		initial: strings.TrimSpace(initial),
	}
}

func (s *TopicScreen) Init() tea.Cmd {
	if s.initial != "" {
		return s.start(s.initial)
	}
	return s.input.Init()
}

func (s *TopicScreen) Title() string {
	return "New session"
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start teaching"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.starting = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		next := teach.New(s.svc, msg.Result)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if s.starting || s.input.Value() == "" {
				return s, nil
			}
			return s, s.start(s.input.Value())
		case "esc":
			if s.starting {
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TopicScreen) start(topic string) tea.Cmd {
	s.starting = true
	s.errMsg = ""
	svc := s.svc
	return func() tea.Msg {
		res, err := svc.Start(context.Background(), topic)
		return startedMsg{Result: res, Err: err}
	}
}

func (s *TopicScreen) View(width, height int) string {
	center := func(text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.DuckName.Render(banner)))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Title.Render("What do you want to teach the duck today?")))
	b.WriteString("\n\n")

	if s.starting {
		b.WriteString(center(theme.Hint.Render("The duck is getting comfortable...")))
		return b.String()
	}

	b.WriteString(center(s.input.View()))
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(center(theme.ErrorText.Render(s.errMsg)))
	}
	return b.String()
}
