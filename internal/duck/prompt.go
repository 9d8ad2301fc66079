package duck

import (
	"fmt"
	"strings"

	"github.com/abhisek/rubberduck/internal/dialogue"
	"github.com/abhisek/rubberduck/internal/llm"
)

func personaPrompt(topic string) string {
	return fmt.Sprintf(`You are a curious student learning about "%s" from the user, who is teaching you.
Rules:
- Ask follow-up questions. Never give answers or explain the topic yourself.
- Ask only ONE question at a time.
- Keep it short: one or two sentences, plain text, no lists or markdown.
- Be enthusiastic and genuinely curious.`, topic)
}

func openingUserMessage(topic string) string {
	return fmt.Sprintf(`I'd like to teach you about "%s". Ask me one open-ended question to get me started explaining.`, topic)
}

func followUpSystemPrompt(in FollowUpInput) string {
	var b strings.Builder
	b.WriteString(personaPrompt(in.Topic))
	if in.QuestionType.Valid() {
		fmt.Fprintf(&b, "\n\nFor your next question: %s", dialogue.Guidance(in.QuestionType))
	}
	return b.String()
}

// buildFollowUpMessages replays the transcript for the model. The system
// seed is dropped (the persona carries it) and a user turn is placed first
// because some providers reject conversations that open with the assistant.
func buildFollowUpMessages(in FollowUpInput) []llm.Message {
	msgs := []llm.Message{{Role: llm.RoleUser, Content: openingUserMessage(in.Topic)}}
	for _, m := range in.History {
		switch m.Role {
		case dialogue.RoleAssistant:
			msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: m.Content})
		case dialogue.RoleUser:
			msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: m.Content})
		}
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: in.LastAnswer})
}

const scoreSystemPrompt = `You are a strict evaluator. The user explained a topic to a student.
Predict how well that student would score on an exam about the subject after learning only from this explanation.
Judge clarity, accuracy and depth. Reply with a JSON object holding a single integer "score" between 0 and 100.`

func buildScoreMessage(question, answer, subject string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Question asked: %s\n", question)
	fmt.Fprintf(&b, "Explanation given: %s\n", answer)
	return b.String()
}

// ScoreSchema is the structured output requested from the scorer.
var ScoreSchema = &llm.Schema{
	Name:        "answer-score",
	Description: "Predicted exam score for a student taught by the explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": "Predicted exam score from 0 to 100",
				"minimum":     0,
				"maximum":     100,
			},
		},
		"required":             []any{"score"},
		"additionalProperties": false,
	},
}
