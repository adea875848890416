package flow

import (
	"context"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/quiz"
)

// Extractor turns an upload batch into text. *extract.Adapter satisfies it.
type Extractor interface {
	Extract(ctx context.Context, files []extract.File) (string, error)
}

// Runner drives a Machine synchronously for non-interactive callers such
// as the generate command.
type Runner struct {
	M   *Machine
	ext Extractor
	gen generate.Generator

	// Last is the most recent successful generation.
	Last *generate.Result
}

// NewRunner wires a machine to its collaborators.
func NewRunner(m *Machine, ext Extractor, gen generate.Generator) *Runner {
	return &Runner{M: m, ext: ext, gen: gen}
}

// Extract submits files and waits for the extraction.
func (r *Runner) Extract(ctx context.Context, files []extract.File) (string, error) {
	t, err := r.M.SubmitFiles(files)
	if err != nil {
		return "", err
	}
	text, err := r.ext.Extract(ctx, files)
	r.M.ExtractionDone(t, text, err)
	return text, err
}

// Generate submits options and waits for the quiz.
func (r *Runner) Generate(ctx context.Context, opts quiz.Options) (*quiz.Quiz, error) {
	t, req, err := r.M.SubmitOptions(opts)
	if err != nil {
		return nil, err
	}
	return r.generate(ctx, t, req)
}

// Regenerate asks for a fresh quiz from the results state.
func (r *Runner) Regenerate(ctx context.Context) (*quiz.Quiz, error) {
	t, req, err := r.M.Regenerate()
	if err != nil {
		return nil, err
	}
	return r.generate(ctx, t, req)
}

func (r *Runner) generate(ctx context.Context, t Ticket, req quiz.Request) (*quiz.Quiz, error) {
	res, err := r.gen.Generate(ctx, req)
	var q *quiz.Quiz
	if err == nil {
		q = res.Quiz
		r.Last = res
	}
	r.M.GenerationDone(t, q, err)
	return q, err
}
