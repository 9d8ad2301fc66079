package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type archiveRepo struct {
	drv *entsql.Driver
}

// archiveFields are ArchivedSession schema field names. The id field is
// stored in the session_id column.
var archiveFields = []string{
	"id", "topic", "started_at", "ended_at", "duration_ms",
	"final_score", "percentage", "assessment", "evaluation_count", "transcript",
}

var archiveColumns = []string{
	"session_id", "topic", "started_at", "ended_at", "duration_ms",
	"final_score", "percentage", "assessment", "evaluation_count", "transcript",
}

func (r *archiveRepo) Save(ctx context.Context, s *ArchivedSession) error {
	transcript, err := json.Marshal(s.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	insert, err := insertQuery(archiveTable, archiveFields, []any{
		s.SessionID, s.Topic, s.StartedAt.UnixMilli(), s.EndedAt.UnixMilli(), s.DurationMs,
		s.FinalScore, s.Percentage, s.Assessment, s.EvaluationCount, string(transcript),
	})
	if err != nil {
		return fmt.Errorf("save archived session: %w", err)
	}
	query, args := insert.
		OnConflict(entsql.ConflictColumns("session_id"), entsql.ResolveWithNewValues()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save archived session: %w", err)
	}
	return nil
}

func (r *archiveRepo) Get(ctx context.Context, sessionID string) (*ArchivedSession, error) {
	out, err := r.query(ctx, builder().Select(archiveColumns...).
		From(entsql.Table(archiveTable.name)).
		Where(entsql.EQ("session_id", sessionID)))
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *archiveRepo) Recent(ctx context.Context, since time.Time, limit int) ([]ArchivedSession, error) {
	sel := builder().Select(archiveColumns...).
		From(entsql.Table(archiveTable.name)).
		Where(entsql.GTE("ended_at", since.UnixMilli())).
		OrderBy(entsql.Desc("ended_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.query(ctx, sel)
}

func (r *archiveRepo) query(ctx context.Context, sel *entsql.Selector) ([]ArchivedSession, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query archived sessions: %w", err)
	}
	defer rows.Close()

	var out []ArchivedSession
	for rows.Next() {
		var (
			s                  ArchivedSession
			startedAt, endedAt int64
			transcript         string
		)
		if err := rows.Scan(
			&s.SessionID, &s.Topic, &startedAt, &endedAt, &s.DurationMs,
			&s.FinalScore, &s.Percentage, &s.Assessment, &s.EvaluationCount, &transcript,
		); err != nil {
			return nil, fmt.Errorf("scan archived session: %w", err)
		}
		s.StartedAt = time.UnixMilli(startedAt)
		s.EndedAt = time.UnixMilli(endedAt)
		if err := json.Unmarshal([]byte(transcript), &s.Transcript); err != nil {
			return nil, fmt.Errorf("decode transcript for %s: %w", s.SessionID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
