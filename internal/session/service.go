package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/rubberduck/internal/dialogue"
	"github.com/abhisek/rubberduck/internal/duck"
	"github.com/abhisek/rubberduck/internal/evaluation"
	"github.com/abhisek/rubberduck/internal/store"
)

// ScoringStrategy selects how Evaluate scores the latest answer.
type ScoringStrategy string

const (
	// ScoringRules uses the deterministic rule-based accumulator.
	ScoringRules ScoringStrategy = "rules"
	// ScoringCollaborator asks the collaborator for a 0-100 exam prediction.
	ScoringCollaborator ScoringStrategy = "llm"
)

// DefaultRetention is how long a completed session stays readable.
const DefaultRetention = 10 * time.Minute

// Options wires a Service.
type Options struct {
	// Registry holds the sessions and owns the retention window. When nil,
	// one is built with Retention.
	Registry     *Registry
	Collaborator duck.Collaborator
	Scoring      ScoringStrategy
	Retention    time.Duration

	// Events and Archive are optional. Writes to them are best-effort.
	Events  store.EventRepo
	Archive store.ArchiveRepo
}

// Service runs the teaching-session state machine.
type Service struct {
	registry *Registry
	duck     duck.Collaborator
	scoring  ScoringStrategy
	events   store.EventRepo
	archive  store.ArchiveRepo
}

// NewService creates a Service. A nil Registry gets a fresh one whose
// retention is Options.Retention, or DefaultRetention when that is zero.
// A caller-supplied Registry keeps its own retention and Options.Retention
// is ignored. An empty Scoring defaults to ScoringRules.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		if opts.Retention == 0 {
			opts.Retention = DefaultRetention
		}
		opts.Registry = NewRegistry(RegistryConfig{Retention: opts.Retention})
	}
	if opts.Scoring == "" {
		opts.Scoring = ScoringRules
	}
	return &Service{
		registry: opts.Registry,
		duck:     opts.Collaborator,
		scoring:  opts.Scoring,
		events:   opts.Events,
		archive:  opts.Archive,
	}
}

// Registry returns the registry backing the service.
func (s *Service) Registry() *Registry {
	return s.registry
}

// StartResult is returned by Start.
type StartResult struct {
	SessionID     string    `json:"sessionId"`
	DuckQuestion  string    `json:"duckQuestion"`
	Topic         string    `json:"topic"`
	StartTime     time.Time `json:"startTime"`
	TeachingScore int       `json:"teachingScore"`
	Message       string    `json:"message"`
}

// Start opens a session on topic. Generation failures fall back to a
// canned greeting and never fail the call.
func (s *Service) Start(ctx context.Context, topic string) (*StartResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is required: %w", ErrInvalidInput)
	}

	question, err := s.duck.GenerateOpeningQuestion(ctx, topic)
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			slog.WarnContext(ctx, "opening question fell back to greeting", "topic", topic, "error", err)
		}
		question = duck.OpeningFallback(topic)
	}

	sess, err := s.registry.Create(topic, []dialogue.Message{
		{Role: dialogue.RoleSystem, Content: "Learning about " + topic},
		{Role: dialogue.RoleAssistant, Content: question},
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.recordEvent(ctx, store.SessionEventData{
		SessionID: sess.ID,
		Action:    store.ActionStart,
		Detail:    topic,
	})
	slog.InfoContext(ctx, "session started", "session_id", sess.ID, "topic", topic)

	return &StartResult{
		SessionID:     sess.ID,
		DuckQuestion:  question,
		Topic:         sess.Topic,
		StartTime:     sess.CreatedAt,
		TeachingScore: 0,
		Message:       fmt.Sprintf("Started teaching session on %q", topic),
	}, nil
}

// AskResult is returned by Ask.
type AskResult struct {
	SessionID            string                `json:"sessionId"`
	DuckQuestion         string                `json:"duckQuestion"`
	QuestionType         dialogue.QuestionType `json:"questionType"`
	CurrentTeachingScore int                   `json:"currentTeachingScore"`
	Timestamp            time.Time             `json:"timestamp"`
}

// Ask records the teacher's answer and the duck's next question. The
// running score is not touched; scoring happens in Evaluate.
func (s *Service) Ask(ctx context.Context, id, answer string) (*AskResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("session id is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("answer is required: %w", ErrInvalidInput)
	}

	snap, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("ask %s: %w", id, ErrNotFound)
	}
	if !snap.Active() {
		return nil, fmt.Errorf("ask %s: %w", id, ErrInvalidState)
	}

	qt := dialogue.SelectNext(answer, snap.History, snap.RunningScore)

	question, err := s.duck.GenerateFollowUp(ctx, duck.FollowUpInput{
		Topic:        snap.Topic,
		History:      snap.History,
		LastAnswer:   answer,
		QuestionType: qt,
	})
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			slog.WarnContext(ctx, "follow-up fell back to canned question", "session_id", id, "error", err)
		}
		question = duck.FollowUpFallback
	}

	updated, err := s.registry.update(id, func(sess *TeachingSession) error {
		if !sess.Active() {
			return fmt.Errorf("ask %s: %w", id, ErrInvalidState)
		}
		sess.History = append(sess.History,
			dialogue.Message{Role: dialogue.RoleUser, Content: answer},
			dialogue.Message{Role: dialogue.RoleAssistant, Content: question},
		)
		return nil
	})
	if err != nil {
		return nil, wrapNotFound("ask", id, err)
	}

	s.recordEvent(ctx, store.SessionEventData{
		SessionID:    id,
		Action:       store.ActionAsk,
		RunningScore: updated.RunningScore,
		Detail:       string(qt),
	})

	return &AskResult{
		SessionID:            id,
		DuckQuestion:         question,
		QuestionType:         qt,
		CurrentTeachingScore: updated.RunningScore,
		Timestamp:            s.registry.now(),
	}, nil
}

// EvaluateResult is returned by Evaluate.
type EvaluateResult struct {
	SessionID       string               `json:"sessionId"`
	TeachingScore   int                  `json:"teachingScore"`
	Percentage      int                  `json:"percentage"`
	Category        string               `json:"category"`
	Feedback        string               `json:"feedback"`
	Message         string               `json:"message"`
	DeltaPoints     int                  `json:"deltaPoints"`
	AnswerScore     int                  `json:"answerScore"`
	AnswerFeedback  string               `json:"answerFeedback"`
	Breakdown       evaluation.Breakdown `json:"breakdown"`
	EvaluationCount int                  `json:"evaluationCount"`
	Timestamp       time.Time            `json:"timestamp"`
}

// Evaluate scores the latest answer and folds it into the running score.
// Each answer is folded at most once.
func (s *Service) Evaluate(ctx context.Context, id string) (*EvaluateResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("session id is required: %w", ErrInvalidInput)
	}

	snap, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("evaluate %s: %w", id, ErrNotFound)
	}
	if !snap.Active() {
		return nil, fmt.Errorf("evaluate %s: %w", id, ErrInvalidState)
	}
	question, answer, turn, ok := snap.lastExchange()
	if !ok {
		return nil, fmt.Errorf("evaluate %s: %w", id, ErrNotEnoughData)
	}
	if turn <= snap.LastScoredTurn {
		return nil, fmt.Errorf("evaluate %s: latest answer already scored: %w", id, ErrNotEnoughData)
	}

	rules := evaluation.Score(answer)
	delta := rules.DeltaPoints
	answerScore := delta * 100 / evaluation.MaxDeltaPoints

	if s.scoring == ScoringCollaborator {
		n, err := s.duck.ScoreAnswer(ctx, question, answer, snap.Topic)
		if err != nil {
			slog.WarnContext(ctx, "answer scoring failed", "session_id", id, "error", err)
			return nil, fmt.Errorf("evaluate %s: %w: %v", id, ErrCollaboratorUnavailable, err)
		}
		answerScore = max(0, min(100, n))
		delta = evaluation.DeltaFromExternal(answerScore)
	}

	updated, err := s.registry.update(id, func(sess *TeachingSession) error {
		if !sess.Active() {
			return fmt.Errorf("evaluate %s: %w", id, ErrInvalidState)
		}
		if turn <= sess.LastScoredTurn {
			return fmt.Errorf("evaluate %s: latest answer already scored: %w", id, ErrNotEnoughData)
		}
		now := s.registry.now()
		sess.LastScoredTurn = turn
		sess.RunningScore = min(evaluation.MaxSessionScore, sess.RunningScore+delta)
		sess.EvaluationCount++
		sess.LastEvaluatedAt = &now
		return nil
	})
	if err != nil {
		return nil, wrapNotFound("evaluate", id, err)
	}

	pct := evaluation.PercentageFor(updated.RunningScore)
	feedback := evaluation.FeedbackBand(pct)

	s.recordEvent(ctx, store.SessionEventData{
		SessionID:    id,
		Action:       store.ActionEvaluate,
		RunningScore: updated.RunningScore,
		DeltaPoints:  delta,
		Detail:       rules.Feedback,
	})
	slog.InfoContext(ctx, "answer evaluated",
		"session_id", id,
		"strategy", s.scoring,
		"delta", delta,
		"running_score", updated.RunningScore,
	)

	return &EvaluateResult{
		SessionID:       id,
		TeachingScore:   updated.RunningScore,
		Percentage:      pct,
		Category:        evaluation.CategoryFor(updated.RunningScore),
		Feedback:        feedback,
		Message:         fmt.Sprintf("Based on your teaching, I think I'd score around a %d/100 on an exam. %s", pct, feedback),
		DeltaPoints:     delta,
		AnswerScore:     answerScore,
		AnswerFeedback:  rules.Feedback,
		Breakdown:       rules.Breakdown,
		EvaluationCount: updated.EvaluationCount,
		Timestamp:       *updated.LastEvaluatedAt,
	}, nil
}

// EndResult is returned by End.
type EndResult struct {
	SessionID       string             `json:"sessionId"`
	Topic           string             `json:"topic"`
	Status          Status             `json:"status"`
	FinalScore      int                `json:"finalScore"`
	Percentage      int                `json:"percentage"`
	Category        string             `json:"category"`
	Assessment      string             `json:"finalAssessment"`
	EvaluationCount int                `json:"evaluationCount"`
	StartTime       time.Time          `json:"startTime"`
	EndTime         time.Time          `json:"endTime"`
	DurationMs      int64              `json:"duration"`
	History         []dialogue.Message `json:"conversationHistory"`
}

// End completes the session, archives it and schedules its eviction.
func (s *Service) End(ctx context.Context, id string) (*EndResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("session id is required: %w", ErrInvalidInput)
	}

	ended, err := s.registry.update(id, func(sess *TeachingSession) error {
		if !sess.Active() {
			return fmt.Errorf("end %s: %w", id, ErrInvalidState)
		}
		now := s.registry.now()
		sess.Status = StatusCompleted
		sess.EndedAt = &now
		return nil
	})
	if err != nil {
		return nil, wrapNotFound("end", id, err)
	}

	s.registry.ScheduleEviction(id, s.registry.Retention())

	res := &EndResult{
		SessionID:       ended.ID,
		Topic:           ended.Topic,
		Status:          ended.Status,
		FinalScore:      ended.RunningScore,
		Percentage:      evaluation.PercentageFor(ended.RunningScore),
		Category:        evaluation.CategoryFor(ended.RunningScore),
		Assessment:      evaluation.FinalAssessment(ended.RunningScore),
		EvaluationCount: ended.EvaluationCount,
		StartTime:       ended.CreatedAt,
		EndTime:         *ended.EndedAt,
		DurationMs:      max(0, ended.Duration(*ended.EndedAt).Milliseconds()),
		History:         ended.History,
	}

	s.recordEvent(ctx, store.SessionEventData{
		SessionID:    id,
		Action:       store.ActionEnd,
		RunningScore: res.FinalScore,
		Detail:       res.Assessment,
	})
	s.archiveSession(ctx, res)
	slog.InfoContext(ctx, "session ended",
		"session_id", id,
		"final_score", res.FinalScore,
		"duration_ms", res.DurationMs,
	)

	return res, nil
}

// Get returns the status summary of a live or recently ended session.
func (s *Service) Get(_ context.Context, id string) (*StatusView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("session id is required: %w", ErrInvalidInput)
	}
	sess, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return &StatusView{
		ID:                 sess.ID,
		Topic:              sess.Topic,
		Status:             sess.Status,
		StartTime:          sess.CreatedAt,
		TeachingScore:      sess.RunningScore,
		Percentage:         evaluation.PercentageFor(sess.RunningScore),
		Category:           evaluation.CategoryFor(sess.RunningScore),
		EvaluationCount:    sess.EvaluationCount,
		ConversationLength: len(sess.History),
		LastEvaluatedAt:    sess.LastEvaluatedAt,
		EndTime:            sess.EndedAt,
		DurationMs:         max(0, sess.Duration(s.registry.now()).Milliseconds()),
	}, nil
}

// Transcript returns a copy of the session's conversation history.
func (s *Service) Transcript(id string) ([]dialogue.Message, error) {
	sess, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("transcript %s: %w", id, ErrNotFound)
	}
	return sess.History, nil
}

// wrapNotFound adds context to registry errors that are not already
// wrapped by the caller's update function.
func wrapNotFound(op, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	return err
}

func (s *Service) recordEvent(ctx context.Context, data store.SessionEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.WarnContext(ctx, "failed to record session event",
			"session_id", data.SessionID, "action", data.Action, "error", err)
	}
}

func (s *Service) archiveSession(ctx context.Context, res *EndResult) {
	if s.archive == nil {
		return
	}
	transcript := make([]store.TranscriptEntry, len(res.History))
	for i, m := range res.History {
		transcript[i] = store.TranscriptEntry{Role: string(m.Role), Content: m.Content}
	}
	err := s.archive.Save(context.WithoutCancel(ctx), &store.ArchivedSession{
		SessionID:       res.SessionID,
		Topic:           res.Topic,
		StartedAt:       res.StartTime,
		EndedAt:         res.EndTime,
		DurationMs:      res.DurationMs,
		FinalScore:      res.FinalScore,
		Percentage:      res.Percentage,
		Assessment:      res.Assessment,
		EvaluationCount: res.EvaluationCount,
		Transcript:      transcript,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to archive session", "session_id", res.SessionID, "error", err)
	}
}
