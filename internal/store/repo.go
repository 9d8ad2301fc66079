package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match when set
	From    time.Time // timestamp >= From
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Session event actions.
const (
	ActionStart    = "start"
	ActionAsk      = "ask"
	ActionEvaluate = "evaluate"
	ActionEnd      = "end"
)

// SessionEventData records one state change of a teaching session.
type SessionEventData struct {
	SessionID    string
	Action       string
	RunningScore int
	DeltaPoints  int
	Detail       string
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	ID        string
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// TranscriptEntry is one archived conversation turn.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ArchivedSession is a completed teaching session kept for history views.
type ArchivedSession struct {
	SessionID       string            `json:"sessionId"`
	Topic           string            `json:"topic"`
	StartedAt       time.Time         `json:"startedAt"`
	EndedAt         time.Time         `json:"endedAt"`
	DurationMs      int64             `json:"duration"`
	FinalScore      int               `json:"finalScore"`
	Percentage      int               `json:"percentage"`
	Assessment      string            `json:"finalAssessment"`
	EvaluationCount int               `json:"evaluationCount"`
	Transcript      []TranscriptEntry `json:"transcript"`
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSessionEvent records a session state change.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// SessionEvents returns the events of one session in sequence order.
	SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error)
}

// ArchiveRepo stores completed sessions.
type ArchiveRepo interface {
	// Save stores a completed session. Saving the same id twice replaces it.
	Save(ctx context.Context, s *ArchivedSession) error

	// Get returns one archived session, or nil if it does not exist.
	Get(ctx context.Context, sessionID string) (*ArchivedSession, error)

	// Recent returns sessions that ended at or after since, newest first.
	Recent(ctx context.Context, since time.Time, limit int) ([]ArchivedSession, error)
}
