package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ArchivedSession keeps a completed teaching session after the registry
// evicts it.
type ArchivedSession struct {
	ent.Schema
}

// TranscriptTurn is the serialized form of one conversation message.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (ArchivedSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("session_id").
			NotEmpty().
			Immutable(),
		field.String("topic").
			NotEmpty(),
		field.Time("started_at"),
		field.Time("ended_at"),
		field.Int64("duration_ms").
			NonNegative(),
		field.Int("final_score").
			Range(0, 800),
		field.Int("percentage").
			Range(0, 100),
		field.Text("assessment"),
		field.Int("evaluation_count").
			NonNegative(),
		field.JSON("transcript", []TranscriptTurn{}).
			Comment("Full conversation history"),
	}
}

func (ArchivedSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("ended_at"),
	}
}
