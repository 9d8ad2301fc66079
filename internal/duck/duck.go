// Package duck provides the curious-student persona that asks the teacher
// questions and grades their answers. The session state machine talks to it
// only through the Collaborator interface.
package duck

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/rubberduck/internal/dialogue"
)

// ErrEmptyReply is returned when the generator produced no usable text.
var ErrEmptyReply = errors.New("duck: empty reply")

// FollowUpInput is everything a follow-up question may depend on.
type FollowUpInput struct {
	Topic string
	// History is the conversation before LastAnswer, system seed included.
	History      []dialogue.Message
	LastAnswer   string
	QuestionType dialogue.QuestionType
}

// Collaborator generates duck questions and predicts exam scores.
type Collaborator interface {
	// GenerateOpeningQuestion returns the first question for a new session.
	GenerateOpeningQuestion(ctx context.Context, topic string) (string, error)

	// GenerateFollowUp returns the next question after the teacher answered.
	GenerateFollowUp(ctx context.Context, in FollowUpInput) (string, error)

	// ScoreAnswer predicts, on a 0-100 scale, how well a student taught by
	// answer would do on an exam about subject.
	ScoreAnswer(ctx context.Context, question, answer, subject string) (int, error)
}

// OpeningFallback is the opening question used when generation fails.
func OpeningFallback(topic string) string {
	return fmt.Sprintf("Hi! Can you teach me about %s?", topic)
}

// FollowUpFallback is the follow-up used when generation fails.
const FollowUpFallback = "That's interesting! Can you tell me more?"

// Config holds generation settings for the LLM-backed duck.
type Config struct {
	QuestionMaxTokens   int
	QuestionTemperature float64
	// QuestionAttempts caps provider attempts for questions, which have a
	// template fallback. Scoring uses the provider's own retry budget.
	QuestionAttempts int
	ScoreMaxTokens   int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		QuestionMaxTokens:   256,
		QuestionTemperature: 0.7,
		QuestionAttempts:    2,
		ScoreMaxTokens:      64,
	}
}

func clampScore(v int) int {
	return max(0, min(100, v))
}
