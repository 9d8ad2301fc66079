package duck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/rubberduck/internal/llm"
)

// LLM purpose labels recorded with each request event.
const (
	PurposeOpening  = "opening-question"
	PurposeFollowUp = "follow-up"
	PurposeScoring  = "scoring"
)

// LLMCollaborator asks an LLM provider to play the duck.
type LLMCollaborator struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMCollaborator creates a collaborator backed by provider.
func NewLLMCollaborator(provider llm.Provider, cfg Config) *LLMCollaborator {
	return &LLMCollaborator{provider: provider, cfg: cfg}
}

func (c *LLMCollaborator) GenerateOpeningQuestion(ctx context.Context, topic string) (string, error) {
	ctx = llm.WithMaxAttempts(llm.WithPurpose(ctx, PurposeOpening), c.cfg.QuestionAttempts)

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      personaPrompt(topic),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: openingUserMessage(topic)}},
		MaxTokens:   c.cfg.QuestionMaxTokens,
		Temperature: c.cfg.QuestionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("opening question: %w", err)
	}
	return replyText(resp)
}

func (c *LLMCollaborator) GenerateFollowUp(ctx context.Context, in FollowUpInput) (string, error) {
	ctx = llm.WithMaxAttempts(llm.WithPurpose(ctx, PurposeFollowUp), c.cfg.QuestionAttempts)

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      followUpSystemPrompt(in),
		Messages:    buildFollowUpMessages(in),
		MaxTokens:   c.cfg.QuestionMaxTokens,
		Temperature: c.cfg.QuestionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("follow-up question: %w", err)
	}
	return replyText(resp)
}

type scoreOutput struct {
	Score int `json:"score"`
}

func (c *LLMCollaborator) ScoreAnswer(ctx context.Context, question, answer, subject string) (int, error) {
	ctx = llm.WithPurpose(ctx, PurposeScoring)

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:    scoreSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildScoreMessage(question, answer, subject)}},
		Schema:    ScoreSchema,
		MaxTokens: c.cfg.ScoreMaxTokens,
	})
	if err != nil {
		return 0, fmt.Errorf("score answer: %w", err)
	}

	var out scoreOutput
	if err := json.Unmarshal([]byte(llm.StripThinking(string(resp.Content))), &out); err != nil {
		return 0, fmt.Errorf("parse score response: %w", err)
	}
	return clampScore(out.Score), nil
}

func replyText(resp *llm.Response) (string, error) {
	text := llm.StripThinking(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
