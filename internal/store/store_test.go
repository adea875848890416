package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("a.db"))
	assert.True(t, strings.HasPrefix(withPragmas("file:x?mode=memory"), "file:x?mode=memory&_pragma="))
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{llmEventsTable, quizzesTable, attemptsTable, sequenceTable} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}

	// Monotonically increasing starting from 1.
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seqs)
}

func TestSequenceCounterSurvivesReseed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.seq.Next(ctx)
	require.NoError(t, err)

	again, err := newSequenceCounter(s.drv)
	require.NoError(t, err)
	seq, err := again.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "ocr", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "quiz-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "boom", got[0].ErrorMessage, "newest first")
	assert.False(t, got[0].Success)
	assert.WithinDuration(t, time.Now(), got[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Before: got[0].Sequence})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "ocr", limited[0].Purpose)

	one, err := repo.GetLLMEvent(ctx, got[2].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "req", one.RequestBody)
	assert.Equal(t, "resp", one.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "quiz-gen", Calls: 2, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 300}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 3, byModel[0].Calls)
	assert.Equal(t, 410, byModel[0].InputTokens)
}

func TestQuizzesAndAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuizRepo()
	ctx := context.Background()

	id, err := repo.SaveQuiz(ctx, QuizData{
		Title:         "Cells",
		Subject:       "text",
		QuizType:      "mcq",
		QuestionCount: 2,
		SourceHash:    "abc",
		SourceChars:   42,
		SourceFiles:   "notes.pdf",
		Completion:    "raw",
		Payload:       `{"title":"Cells","questions":[]}`,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	q, err := repo.GetQuiz(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "Cells", q.Title)
	assert.Equal(t, 2, q.QuestionCount)
	assert.Equal(t, "notes.pdf", q.SourceFiles)

	_, err = repo.AppendAttempt(ctx, AttemptData{QuizID: id, Correct: 1, Total: 2, Percent: 50, Answers: `{"0":"A"}`})
	require.NoError(t, err)
	_, err = repo.AppendAttempt(ctx, AttemptData{QuizID: id, Correct: 2, Total: 2, Percent: 100, Answers: `{"0":"B"}`})
	require.NoError(t, err)

	attempts, err := repo.ListAttempts(ctx, id)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 50, attempts[0].Percent, "oldest first")
	assert.Equal(t, 100, attempts[1].Percent)

	list, err := repo.ListQuizzes(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	missing, err := repo.GetQuiz(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttemptRequiresQuiz(t *testing.T) {
	s := openTestStore(t)
	_, err := s.QuizRepo().AppendAttempt(context.Background(), AttemptData{QuizID: "missing", Total: 1, Answers: "{}"})
	assert.Error(t, err)
}
