package flow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/llm"
	"github.com/abhisek/quizdoc/internal/quiz"
)

const (
	testWait = time.Second
	testTick = time.Millisecond
)

type pagesPDF struct {
	pages     int
	textReads int
}

func (p *pagesPDF) PageCount([]byte) (int, error) { return p.pages, nil }

func (p *pagesPDF) PageTexts([]byte) ([]string, error) {
	p.textReads++
	return make([]string, p.pages), nil
}

func TestRunner_PDFOverPageLimit(t *testing.T) {
	reader := &pagesPDF{pages: 20}
	adapter := extract.NewAdapter(nil, extract.WithPDFReader(reader))
	r := NewRunner(newMachine(t), adapter, nil)

	_, err := r.Extract(context.Background(), []extract.File{{Name: "book.pdf", MediaType: "application/pdf"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrPageLimit)
	assert.Zero(t, reader.textReads)

	assert.Equal(t, StateError, r.M.State())
	assert.Equal(t, FailureExtraction, r.M.Failure().Kind)
	_, ok := r.M.Text()
	assert.False(t, ok, "no extracted text is stored")
}

type staticExtractor string

func (s staticExtractor) Extract(context.Context, []extract.File) (string, error) {
	return string(s), nil
}

func TestRunner_FencedCompletionEndToEnd(t *testing.T) {
	completion := "Here is your quiz:\n```json\n" +
		`{"quiz":{"title":"T","questions":[{"question":"Q1","options":["A","B"],"answer":0,"explanation":"E"}]}}` +
		"\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(completion)})
	cfg := generate.DefaultConfig()
	cfg.Structured = false
	r := NewRunner(newMachine(t), staticExtractor("cells"), generate.New(mock, cfg))

	_, err := r.Extract(context.Background(), []extract.File{{Name: "a.png", MediaType: "image/png"}})
	require.NoError(t, err)

	q, err := r.Generate(context.Background(), quiz.TextOptions{NumberOfQuestions: 1, QuizType: "Multiple Choice"})
	require.NoError(t, err)
	assert.Equal(t, "T", q.Title)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, quiz.MultipleChoice, q.Questions[0].Type)
	assert.Equal(t, "A", q.Questions[0].Answer)
	assert.Equal(t, StateQuiz, r.M.State())
	assert.Equal(t, completion, r.Last.Completion)
}

func TestRunner_GenerationFailureThenRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("no quiz here")},
		llm.MockResponse{Content: json.RawMessage(`[{"question":"Q","answer":"yes","type":"open"}]`)},
	)
	cfg := generate.DefaultConfig()
	cfg.Structured = false
	r := NewRunner(newMachine(t), staticExtractor("text"), generate.New(mock, cfg))
	_, err := r.Extract(context.Background(), []extract.File{{Name: "a.png", MediaType: "image/png"}})
	require.NoError(t, err)

	_, err = r.Generate(context.Background(), quiz.TextOptions{NumberOfQuestions: 1})
	assert.True(t, errors.Is(err, quiz.ErrUnparseable))
	assert.Equal(t, FailureParse, r.M.Failure().Kind)
	require.NoError(t, r.M.DismissError())

	q, err := r.Generate(context.Background(), quiz.TextOptions{NumberOfQuestions: 1})
	require.NoError(t, err)
	assert.Equal(t, "yes", q.Questions[0].Answer)

	// The second request still carried the original text.
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "text")
}

func TestRunner_Regenerate(t *testing.T) {
	first := `{"title":"One","questions":[{"question":"Q","answer":"a","type":"open"}]}`
	second := `{"title":"Two","questions":[{"question":"Q","answer":"b","type":"open"}]}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(first)},
		llm.MockResponse{Content: json.RawMessage(second)},
	)
	r := NewRunner(newMachine(t), staticExtractor("text"), generate.New(mock, generate.DefaultConfig()))
	_, _ = r.Extract(context.Background(), []extract.File{{Name: "a.png", MediaType: "image/png"}})
	_, err := r.Generate(context.Background(), quiz.TextOptions{NumberOfQuestions: 1, QuizType: "open"})
	require.NoError(t, err)
	_, err = r.M.SubmitAnswers()
	require.NoError(t, err)

	q, err := r.Regenerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Two", q.Title)
	assert.Equal(t, mock.Calls[0].Messages[0].Content, mock.Calls[1].Messages[0].Content)
}
