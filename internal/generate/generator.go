// Package generate turns extracted source text into a normalized quiz,
// either through an LLM provider or a remote generation endpoint.
package generate

import (
	"context"

	"github.com/abhisek/quizdoc/internal/llm"
	"github.com/abhisek/quizdoc/internal/quiz"
)

// PurposeQuizGen labels quiz generation calls in the LLM event log.
const PurposeQuizGen = "quiz-gen"

// Generator produces a quiz for a request. Transport failures are returned
// as-is; a completion that yields no question wraps quiz.ErrUnparseable.
type Generator interface {
	Generate(ctx context.Context, req quiz.Request) (*Result, error)
}

// Result is a normalized quiz together with the completion it came from.
type Result struct {
	Quiz       *quiz.Quiz
	Completion string
	Source     quiz.Source
	Model      string
	Usage      llm.Usage
}

// Normalize builds a Result from a raw completion.
func Normalize(completion string, req quiz.Request) (*Result, error) {
	q, src, err := quiz.NormalizeWithSource(completion, req.QuizType)
	if err != nil {
		return nil, &ParseError{Completion: completion, Err: err}
	}
	return &Result{Quiz: q, Completion: completion, Source: src}, nil
}
