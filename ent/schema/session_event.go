package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// SessionEvent records one state change of a teaching session.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
		field.String("session_id").
			NotEmpty().
			Comment("Registry id, session_<unix-ms>_<suffix>"),
		field.Enum("action").
			Values("start", "ask", "evaluate", "end"),
		field.Int("running_score").
			Default(0).
			Comment("Score after the action, 0..800"),
		field.Int("delta_points").
			Default(0).
			Comment("Points added by an evaluate action"),
		field.String("detail").
			Default("").
			Comment("Topic, question type, feedback or final assessment"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "sequence"),
	}
}
