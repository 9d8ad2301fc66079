// Package session implements the teaching-session state machine and the
// in-memory registry that owns live sessions.
package session

import (
	"slices"
	"time"

	"github.com/abhisek/rubberduck/internal/dialogue"
)

// Status is the lifecycle state of a session. The only transition is
// active to completed.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// TeachingSession is one teaching conversation about a topic.
type TeachingSession struct {
	ID              string             `json:"sessionId"`
	Topic           string             `json:"topic"`
	CreatedAt       time.Time          `json:"startTime"`
	History         []dialogue.Message `json:"conversationHistory"`
	Status          Status             `json:"status"`
	RunningScore    int                `json:"teachingScore"`
	EvaluationCount int                `json:"evaluationCount"`
	LastEvaluatedAt *time.Time         `json:"lastEvaluatedAt"`
	EndedAt         *time.Time         `json:"endTime,omitempty"`

	// LastScoredTurn is the history index of the last answer folded into
	// RunningScore. Zero means nothing has been scored.
	LastScoredTurn int `json:"-"`
}

// clone returns a deep copy safe to hand outside the registry.
func (s *TeachingSession) clone() TeachingSession {
	c := *s
	c.History = slices.Clone(s.History)
	if s.LastEvaluatedAt != nil {
		t := *s.LastEvaluatedAt
		c.LastEvaluatedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return c
}

// Active reports whether the session still accepts turns.
func (s *TeachingSession) Active() bool {
	return s.Status == StatusActive
}

// Duration is the time from start to end, or to now for a live session.
func (s *TeachingSession) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.CreatedAt)
	}
	return now.Sub(s.CreatedAt)
}

// LastQuestion returns the most recent duck question.
func (s *TeachingSession) LastQuestion() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == dialogue.RoleAssistant {
			return s.History[i].Content
		}
	}
	return ""
}

// lastExchange returns the latest user answer, its history index and the
// question it answered. ok is false unless that answer sits past the seed
// and directly follows an assistant turn.
func (s *TeachingSession) lastExchange() (question, answer string, turn int, ok bool) {
	for i := len(s.History) - 1; i > 0; i-- {
		if s.History[i].Role != dialogue.RoleUser {
			continue
		}
		prev := s.History[i-1]
		if prev.Role != dialogue.RoleAssistant {
			return "", "", 0, false
		}
		return prev.Content, s.History[i].Content, i, true
	}
	return "", "", 0, false
}

// StatusView is the read-only summary returned by Service.Get.
type StatusView struct {
	ID                 string     `json:"sessionId"`
	Topic              string     `json:"topic"`
	Status             Status     `json:"status"`
	StartTime          time.Time  `json:"startTime"`
	TeachingScore      int        `json:"teachingScore"`
	Percentage         int        `json:"percentage"`
	Category           string     `json:"category"`
	EvaluationCount    int        `json:"evaluationCount"`
	ConversationLength int        `json:"conversationLength"`
	LastEvaluatedAt    *time.Time `json:"lastEvaluatedAt"`
	EndTime            *time.Time `json:"endTime,omitempty"`
	DurationMs         int64      `json:"duration"`
}
