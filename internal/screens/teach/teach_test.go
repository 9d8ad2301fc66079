package teach

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rubberduck/internal/duck"
	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screen"
	"github.com/abhisek/rubberduck/internal/screens/summary"
	"github.com/abhisek/rubberduck/internal/session"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlE() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl}
}

func testTeachScreen(t *testing.T) (*TeachScreen, *session.Service) {
	t.Helper()
	svc := session.NewService(session.Options{Collaborator: duck.NewOfflineCollaborator()})
	started, err := svc.Start(context.Background(), "binary search trees")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return New(svc, started), svc
}

// run executes cmd and feeds its message back into the screen.
func run(t *testing.T, s screen.Screen, cmd tea.Cmd) (screen.Screen, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return s.Update(cmd())
}

func TestTeachScreen_Title(t *testing.T) {
	s, _ := testTeachScreen(t)
	if s.Title() != "Teaching: binary search trees" {
		t.Errorf("Title = %q", s.Title())
	}
	if s.Status() != "not yet evaluated" {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestTeachScreen_EmptyAnswerIgnored(t *testing.T) {
	s, _ := testTeachScreen(t)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for an empty answer")
	}
	if len(s.lines) != 1 {
		t.Errorf("expected 1 line, got %d", len(s.lines))
	}
}

func TestTeachScreen_SendAnswer(t *testing.T) {
	s, svc := testTeachScreen(t)
	s.input.Model.SetValue("A BST is a tree where left children are smaller")

	scr, cmd := s.Update(specialKey(tea.KeyEnter))
	if !s.busy {
		t.Error("expected screen to be busy while the duck replies")
	}
	if s.input.Value() != "" {
		t.Error("expected input to be cleared")
	}

	// A second Enter while busy does nothing.
	s.input.Model.SetValue("again")
	if _, again := s.Update(specialKey(tea.KeyEnter)); again != nil {
		t.Error("expected no command while busy")
	}
	s.input.Reset()

	run(t, scr, cmd)
	if s.busy {
		t.Error("expected busy to clear after the reply")
	}
	if len(s.lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(s.lines))
	}
	if s.lines[1].kind != lineTeacher || s.lines[2].kind != lineDuck {
		t.Error("expected teacher line followed by duck line")
	}

	history, err := svc.Transcript(s.sessionID)
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(history) != 4 {
		t.Errorf("expected 4 messages in session, got %d", len(history))
	}
}

func TestTeachScreen_EvaluateTooEarly(t *testing.T) {
	s, _ := testTeachScreen(t)
	scr, cmd := s.Update(ctrlE())
	run(t, scr, cmd)

	if !strings.Contains(s.errMsg, "Answer the duck's question") {
		t.Errorf("unexpected error message %q", s.errMsg)
	}
	if s.evaluated {
		t.Error("expected no evaluation")
	}
}

func TestTeachScreen_Evaluate(t *testing.T) {
	s, _ := testTeachScreen(t)
	s.input.Model.SetValue("First, smaller keys go left because comparisons decide the path. For example, 3 goes left of 5.")
	scr, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, scr, cmd)

	scr, cmd = s.Update(ctrlE())
	run(t, scr, cmd)

	if !s.evaluated {
		t.Fatal("expected evaluation")
	}
	last := s.lines[len(s.lines)-1]
	if last.kind != lineEvaluation || !strings.Contains(last.text, "/100 on an exam.") {
		t.Errorf("unexpected evaluation line %+v", last)
	}
	if !strings.Contains(s.Status(), "%") {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestTeachScreen_EndShowsSummary(t *testing.T) {
	s, svc := testTeachScreen(t)
	scr, cmd := s.Update(specialKey(tea.KeyEscape))
	_, next := run(t, scr, cmd)
	if next == nil {
		t.Fatal("expected navigation after end")
	}
	msg, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	view, err := svc.Get(context.Background(), s.sessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Status != session.StatusCompleted {
		t.Errorf("expected completed session, got %s", view.Status)
	}
}

type failingService struct {
	Service
}

func (failingService) End(context.Context, string) (*session.EndResult, error) {
	return nil, errors.New("store is gone")
}

func TestTeachScreen_EndError(t *testing.T) {
	s := New(failingService{}, &session.StartResult{SessionID: "session_1_abcdefg", Topic: "heaps", DuckQuestion: "What is a heap?"})
	scr, cmd := s.Update(specialKey(tea.KeyEscape))
	_, next := run(t, scr, cmd)
	if next != nil {
		t.Error("expected no navigation on error")
	}
	if s.errMsg != "store is gone" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.busy {
		t.Error("expected busy to clear")
	}
}

func TestTeachScreen_View(t *testing.T) {
	s, _ := testTeachScreen(t)
	view := s.View(80, 24)
	if !strings.Contains(view, "Duck") {
		t.Error("expected the duck's opening question in the view")
	}
}
