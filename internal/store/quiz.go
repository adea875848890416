package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// quizRepo implements QuizRepo on the quizzes and quiz_attempts tables.
type quizRepo struct {
	drv dialect.Driver
	seq *sequenceCounter
}

func (r *quizRepo) SaveQuiz(ctx context.Context, data QuizData) (string, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}

	id := uuid.NewString()
	insert := builder().Insert(quizzesTable).
		Set("id", id).
		Set("sequence", seqNum).
		Set("timestamp", time.Now().UTC()).
		Set("title", data.Title).
		Set("subject", data.Subject).
		Set("quiz_type", data.QuizType).
		Set("language", data.Language).
		Set("difficulty", data.Difficulty).
		Set("question_count", data.QuestionCount).
		Set("source_hash", data.SourceHash).
		Set("source_chars", data.SourceChars).
		Set("source_files", data.SourceFiles).
		Set("completion", data.Completion).
		Set("payload", data.Payload)
	if err := exec(ctx, r.drv, insert); err != nil {
		return "", fmt.Errorf("save quiz: %w", err)
	}
	return id, nil
}

func (r *quizRepo) GetQuiz(ctx context.Context, id string) (*QuizRecord, error) {
	t := builder().Table(quizzesTable)
	sel := builder().Select().From(t).Where(entsql.EQ(t.C("id"), id))

	var out []QuizRecord
	if err := selectAll(ctx, r.drv, sel, &out); err != nil {
		return nil, fmt.Errorf("get quiz %s: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *quizRepo) ListQuizzes(ctx context.Context, opts QueryOpts) ([]QuizRecord, error) {
	sel := applyOpts(builder().Select().From(builder().Table(quizzesTable)), opts)

	var out []QuizRecord
	if err := selectAll(ctx, r.drv, sel, &out); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return out, nil
}

func (r *quizRepo) AppendAttempt(ctx context.Context, data AttemptData) (string, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}

	id := uuid.NewString()
	insert := builder().Insert(attemptsTable).
		Set("id", id).
		Set("sequence", seqNum).
		Set("timestamp", time.Now().UTC()).
		Set("quiz_id", data.QuizID).
		Set("correct", data.Correct).
		Set("total", data.Total).
		Set("percent", data.Percent).
		Set("answers", data.Answers)
	if err := exec(ctx, r.drv, insert); err != nil {
		return "", fmt.Errorf("save attempt: %w", err)
	}
	return id, nil
}

func (r *quizRepo) ListAttempts(ctx context.Context, quizID string) ([]AttemptRecord, error) {
	t := builder().Table(attemptsTable)
	sel := builder().Select().From(t).
		Where(entsql.EQ(t.C("quiz_id"), quizID)).
		OrderBy(t.C("sequence"))

	var out []AttemptRecord
	if err := selectAll(ctx, r.drv, sel, &out); err != nil {
		return nil, fmt.Errorf("list attempts for %s: %w", quizID, err)
	}
	return out, nil
}
