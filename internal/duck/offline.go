package duck

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/abhisek/rubberduck/internal/dialogue"
	"github.com/abhisek/rubberduck/internal/evaluation"
)

// OfflineCollaborator plays the duck without a model: questions come from
// the dialogue template bank and scores from the rule-based accumulator.
// Its output is fully deterministic.
type OfflineCollaborator struct{}

// NewOfflineCollaborator creates an OfflineCollaborator.
func NewOfflineCollaborator() *OfflineCollaborator {
	return &OfflineCollaborator{}
}

var openingTemplates = []string{
	"Hi! Can you teach me about %s?",
	"I've always wondered about %s. Where should I start?",
	"What is %s, and why does it matter?",
	"I keep hearing about %s. Can you explain it to me from the beginning?",
}

func (OfflineCollaborator) GenerateOpeningQuestion(_ context.Context, topic string) (string, error) {
	h := fnv.New32a()
	h.Write([]byte(topic))
	tmpl := openingTemplates[h.Sum32()%uint32(len(openingTemplates))]
	return fmt.Sprintf(tmpl, topic), nil
}

func (OfflineCollaborator) GenerateFollowUp(_ context.Context, in FollowUpInput) (string, error) {
	resp := dialogue.Phrase(in.QuestionType, dialogue.PhraseInput{
		Topic:      in.Topic,
		LastAnswer: in.LastAnswer,
		History:    in.History,
	})
	return resp.Message, nil
}

// ScoreAnswer rescales the rule-based points for answer onto 0-100.
func (OfflineCollaborator) ScoreAnswer(_ context.Context, _, answer, _ string) (int, error) {
	delta := evaluation.Score(answer).DeltaPoints
	return clampScore(delta * 100 / evaluation.MaxDeltaPoints), nil
}
