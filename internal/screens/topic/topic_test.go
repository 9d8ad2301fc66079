package topic

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rubberduck/internal/duck"
	"github.com/abhisek/rubberduck/internal/router"
	"github.com/abhisek/rubberduck/internal/screens/teach"
	"github.com/abhisek/rubberduck/internal/session"
)

func testService() *session.Service {
	return session.NewService(session.Options{Collaborator: duck.NewOfflineCollaborator()})
}

func TestTopicScreen_EnterStartsSession(t *testing.T) {
	s := New(testService(), "")
	s.input.Model.SetValue("photosynthesis")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a start command")
	}
	if !s.starting {
		t.Error("expected starting state")
	}

	_, next := s.Update(cmd())
	if next == nil {
		t.Fatal("expected navigation after start")
	}
	msg, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}
	ts, ok := msg.Screen.(*teach.TeachScreen)
	if !ok {
		t.Fatalf("expected teach screen, got %T", msg.Screen)
	}
	if ts.Title() != "Teaching: photosynthesis" {
		t.Errorf("Title = %q", ts.Title())
	}
}

func TestTopicScreen_EmptyTopicIgnored(t *testing.T) {
	s := New(testService(), "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty topic")
	}
}

func TestTopicScreen_InitialTopicStartsImmediately(t *testing.T) {
	s := New(testService(), "  recursion ")
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a start command from Init")
	}
	msg, ok := cmd().(startedMsg)
	if !ok {
		t.Fatalf("expected startedMsg, got %T", cmd())
	}
	if msg.Err != nil || msg.Result.Topic != "recursion" {
		t.Errorf("unexpected start result %+v, err %v", msg.Result, msg.Err)
	}
}

func TestTopicScreen_View(t *testing.T) {
	s := New(testService(), "")
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty view")
	}
}

func TestTopicScreen_EscGoesBack(t *testing.T) {
	s := New(testService(), "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected Esc to pop the topic screen")
	}
}
