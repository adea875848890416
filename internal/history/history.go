// Package history records generated quizzes and scored attempts.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/store"
)

// Recorder saves quizzes and attempts. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	repo   store.QuizRepo
	logger *zap.Logger
}

// NewRecorder wraps a quiz repository.
func NewRecorder(repo store.QuizRepo, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// SaveQuiz stores a generated quiz with the request that produced it and
// returns the new quiz ID.
func (r *Recorder) SaveQuiz(ctx context.Context, req quiz.Request, res *generate.Result, files []string) (string, error) {
	if r == nil {
		return "", nil
	}
	payload, err := json.Marshal(res.Quiz)
	if err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}

	id, err := r.repo.SaveQuiz(ctx, store.QuizData{
		Title:         res.Quiz.Title,
		Subject:       string(req.Subject),
		QuizType:      string(req.QuizType),
		Language:      req.Language,
		Difficulty:    req.Difficulty,
		QuestionCount: len(res.Quiz.Questions),
		SourceHash:    SourceHash(req.Text),
		SourceChars:   len([]rune(req.Text)),
		SourceFiles:   strings.Join(files, ", "),
		Completion:    res.Completion,
		Payload:       string(payload),
	})
	if err != nil {
		return "", fmt.Errorf("save quiz: %w", err)
	}
	r.logger.Debug("quiz saved", zap.String("id", id), zap.Int("questions", len(res.Quiz.Questions)))
	return id, nil
}

// SaveAttempt stores a scored attempt on quiz id.
func (r *Recorder) SaveAttempt(ctx context.Context, id string, answers quiz.Answers, s quiz.Score) (string, error) {
	if r == nil || id == "" {
		return "", nil
	}
	enc, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	aid, err := r.repo.AppendAttempt(ctx, store.AttemptData{
		QuizID:  id,
		Correct: s.CorrectCount,
		Total:   s.Total,
		Percent: s.Percent,
		Answers: string(enc),
	})
	if err != nil {
		return "", fmt.Errorf("save attempt: %w", err)
	}
	return aid, nil
}

// Entry is a stored quiz with its attempts.
type Entry struct {
	Record   store.QuizRecord
	Quiz     *quiz.Quiz
	Attempts []store.AttemptRecord
}

// Load returns a stored quiz, or nil if id is unknown.
func Load(ctx context.Context, repo store.QuizRepo, id string) (*Entry, error) {
	rec, err := repo.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	var q quiz.Quiz
	if err := json.Unmarshal([]byte(rec.Payload), &q); err != nil {
		return nil, fmt.Errorf("decode quiz %s: %w", id, err)
	}
	attempts, err := repo.ListAttempts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Entry{Record: *rec, Quiz: &q, Attempts: attempts}, nil
}

// DecodeAnswers parses the answers column of an attempt.
func DecodeAnswers(raw string) (quiz.Answers, error) {
	var a quiz.Answers
	if raw == "" {
		return quiz.Answers{}, nil
	}
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, err
	}
	return a, nil
}

// SourceHash fingerprints source text so repeated uploads can be grouped
// without storing the text.
func SourceHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
