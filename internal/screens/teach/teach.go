// Package teach is the chat screen where the user explains a topic to the
// duck.
package teach

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screen"
	"github.com/abhisek/rubberduck/internal/screens/summary"
	"github.com/abhisek/rubberduck/internal/session"
	"github.com/abhisek/rubberduck/internal/ui/components"
	"github.com/abhisek/rubberduck/internal/ui/layout"
)

// Service is the part of the session service the TUI drives.
type Service interface {
	Start(ctx context.Context, topic string) (*session.StartResult, error)
	Ask(ctx context.Context, id, answer string) (*session.AskResult, error)
	Evaluate(ctx context.Context, id string) (*session.EvaluateResult, error)
	End(ctx context.Context, id string) (*session.EndResult, error)
}

var _ Service = (*session.Service)(nil)

type lineKind int

const (
	lineDuck lineKind = iota
	lineTeacher
	lineEvaluation
)

type line struct {
	kind lineKind
	text string
}

// TeachScreen implements screen.Screen for an active teaching session.
type TeachScreen struct {
	svc       Service
	sessionID string
	topic     string
	lines     []line
	input     components.TextInput
	busy      bool
	percent   int
	evaluated bool
	errMsg    string
}

var _ screen.Screen = (*TeachScreen)(nil)
var _ screen.KeyHintProvider = (*TeachScreen)(nil)
var _ screen.StatusProvider = (*TeachScreen)(nil)

// New creates the chat screen for a session that has just started.
func New(svc Service, started *session.StartResult) *TeachScreen {
	return &TeachScreen{
		svc:       svc,
		sessionID: started.SessionID,
		topic:     started.Topic,
		lines:     []line{{kind: lineDuck, text: started.DuckQuestion}},
		input:     components.NewTextInput("Explain it to the duck...", 0),
	}
}

func (s *TeachScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *TeachScreen) Title() string {
	return "Teaching: " + s.topic
}

func (s *TeachScreen) Status() string {
	if !s.evaluated {
		return "not yet evaluated"
	}
	return fmt.Sprintf("exam readiness %d%%", s.percent)
}

func (s *TeachScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+E", Description: "Evaluate"},
		{Key: "Esc", Description: "End session"},
	}
}

func (s *TeachScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case askDoneMsg:
		return s.handleAsk(msg)
	case evaluateDoneMsg:
		return s.handleEvaluate(msg)
	case endDoneMsg:
		return s.handleEnd(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s.send()
		case "ctrl+e":
			return s.evaluate()
		case "esc":
			return s.end()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TeachScreen) send() (screen.Screen, tea.Cmd) {
	answer := s.input.Value()
	if s.busy || answer == "" {
		return s, nil
	}
	s.lines = append(s.lines, line{kind: lineTeacher, text: answer})
	s.input.Reset()
	s.busy = true
	s.errMsg = ""

	svc, id := s.svc, s.sessionID
	return s, func() tea.Msg {
		res, err := svc.Ask(context.Background(), id, answer)
		return askDoneMsg{Result: res, Err: err}
	}
}

func (s *TeachScreen) evaluate() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	s.busy = true
	s.errMsg = ""

	svc, id := s.svc, s.sessionID
	return s, func() tea.Msg {
		res, err := svc.Evaluate(context.Background(), id)
		return evaluateDoneMsg{Result: res, Err: err}
	}
}

func (s *TeachScreen) end() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	s.busy = true

	svc, id := s.svc, s.sessionID
	return s, func() tea.Msg {
		res, err := svc.End(context.Background(), id)
		return endDoneMsg{Result: res, Err: err}
	}
}

func (s *TeachScreen) handleAsk(msg askDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.lines = append(s.lines, line{kind: lineDuck, text: msg.Result.DuckQuestion})
	return s, nil
}

func (s *TeachScreen) handleEvaluate(msg evaluateDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if errors.Is(msg.Err, session.ErrNotEnoughData) {
		s.errMsg = "Answer the duck's question before asking for an evaluation."
		return s, nil
	}
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.percent = msg.Result.Percentage
	s.evaluated = true
	s.lines = append(s.lines, line{kind: lineEvaluation, text: msg.Result.Message})
	return s, nil
}

func (s *TeachScreen) handleEnd(msg endDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	next := summary.New(msg.Result)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
