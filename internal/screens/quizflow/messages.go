package quizflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/flow"
	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/history"
	"github.com/abhisek/quizdoc/internal/progress"
	"github.com/abhisek/quizdoc/internal/quiz"
)

// extractedMsg carries the result of an extraction started under ticket.
type extractedMsg struct {
	ticket flow.Ticket
	text   string
	err    error
}

// generatedMsg carries the result of a generation started under ticket.
type generatedMsg struct {
	ticket flow.Ticket
	result *generate.Result
	err    error
}

// progressMsg is sent whenever tracker publishes a new percentage. open is
// false once the tracker has stopped.
type progressMsg struct {
	tracker *progress.Tracker
	open    bool
}

// quizSavedMsg is sent when a generated quiz has been stored.
type quizSavedMsg struct {
	ticket flow.Ticket
	id     string
	err    error
}

// attemptSavedMsg is sent when a scored attempt has been stored.
type attemptSavedMsg struct {
	err error
}

// transcriptSavedMsg is sent when the transcript file has been written.
type transcriptSavedMsg struct {
	path string
	err  error
}

func extractCmd(ctx context.Context, ext flow.Extractor, t flow.Ticket, files []extract.File) tea.Cmd {
	return func() tea.Msg {
		text, err := ext.Extract(ctx, files)
		return extractedMsg{ticket: t, text: text, err: err}
	}
}

func generateCmd(ctx context.Context, gen generate.Generator, t flow.Ticket, req quiz.Request) tea.Cmd {
	return func() tea.Msg {
		res, err := gen.Generate(ctx, req)
		return generatedMsg{ticket: t, result: res, err: err}
	}
}

func waitProgress(t *progress.Tracker) tea.Cmd {
	if t == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-t.Updates()
		return progressMsg{tracker: t, open: ok}
	}
}

func saveQuizCmd(rec *history.Recorder, t flow.Ticket, req quiz.Request, res *generate.Result, files []string) tea.Cmd {
	if rec == nil || res == nil {
		return nil
	}
	return func() tea.Msg {
		id, err := rec.SaveQuiz(context.Background(), req, res, files)
		return quizSavedMsg{ticket: t, id: id, err: err}
	}
}

func saveAttemptCmd(rec *history.Recorder, id string, answers quiz.Answers, score quiz.Score) tea.Cmd {
	if rec == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		_, err := rec.SaveAttempt(context.Background(), id, answers, score)
		return attemptSavedMsg{err: err}
	}
}

func saveTranscriptCmd(dir string, q *quiz.Quiz, now time.Time) tea.Cmd {
	return func() tea.Msg {
		if dir == "" {
			dir = "."
		}
		name := fmt.Sprintf("%s-%s.txt", slug(q.Title), now.Format("20060102-150405"))
		path := filepath.Join(dir, name)
		err := os.WriteFile(path, []byte(quiz.Transcript(q)), 0o644)
		return transcriptSavedMsg{path: path, err: err}
	}
}

// splitPaths splits the upload input on commas and whitespace.
func splitPaths(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "quiz"
	}
	return s
}
