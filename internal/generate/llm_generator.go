package generate

import (
	"context"
	"fmt"

	"github.com/abhisek/quizdoc/internal/llm"
	"github.com/abhisek/quizdoc/internal/quiz"
)

// LLMGenerator implements Generator on top of an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Complete sends the quiz prompt and returns the raw completion without
// normalizing it.
func (g *LLMGenerator) Complete(ctx context.Context, req quiz.Request) (*llm.Response, error) {
	if req.QuizType == "" {
		req.QuizType = quiz.MultipleChoice
	}
	ctx = llm.WithPurpose(ctx, PurposeQuizGen)

	lreq := llm.Request{
		System: buildSystemPrompt(req),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, g.config)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.Structured {
		lreq.Schema = QuizSchema
	}

	resp, err := g.provider.Generate(ctx, lreq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	return resp, nil
}

// Generate produces a quiz for req.
func (g *LLMGenerator) Generate(ctx context.Context, req quiz.Request) (*Result, error) {
	resp, err := g.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	res, err := Normalize(resp.Text(), req)
	if err != nil {
		return nil, err
	}
	res.Model = resp.Model
	res.Usage = resp.Usage
	return res, nil
}
