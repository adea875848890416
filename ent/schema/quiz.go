package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Quiz is a generated quiz together with the source it was built from.
type Quiz struct {
	ent.Schema
}

func (Quiz) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Quiz) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable().
			Comment("UUID assigned when the quiz is saved"),
		field.String("title"),
		field.String("subject"),
		field.String("quiz_type").
			Comment("Wire tag: mcq, true_false or open"),
		field.String("language").
			Default(""),
		field.String("difficulty").
			Default("").
			Comment("Only set for math quizzes"),
		field.Int("question_count"),
		field.String("source_hash").
			Comment("SHA-256 of the extracted text"),
		field.Int("source_chars"),
		field.String("source_files").
			Default("").
			Comment("Comma separated file names"),
		field.Text("completion").
			Default("").
			Comment("Raw model output the quiz was parsed from"),
		field.Text("payload").
			Comment("Normalized quiz as JSON"),
	}
}

func (Quiz) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("attempts", QuizAttempt.Type),
	}
}

func (Quiz) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("source_hash"),
	}
}
