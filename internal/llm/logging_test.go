package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizdoc/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"title":"T"}`),
		Usage:   Usage{InputTokens: 7, OutputTokens: 3},
	})
	p := WithLogging(mock, repo, nil)

	ctx := WithPurpose(context.Background(), "quiz")
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "doc"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Purpose != "quiz" || !ev.Success || ev.InputTokens != 7 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.ResponseBody != `{"title":"T"}` {
		t.Fatalf("unexpected response body %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("expected provider result to pass through, got %v", err)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	p := WithLogging(NewMockProvider(), repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error from empty mock")
	}
	if repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("expected failed event, got %+v", repo.events[0])
	}
}

func TestSerializeRequest_SummarizesImages(t *testing.T) {
	out := serializeRequest(Request{
		System: "ocr",
		Messages: []Message{{
			Role:    RoleUser,
			Content: "Transcribe.",
			Images:  []Image{{MediaType: "image/png", Data: make([]byte, 42)}},
		}},
	})
	if !strings.Contains(out, "[image: image/png, 42 bytes]") {
		t.Fatalf("expected image summary, got %q", out)
	}
	if !strings.Contains(out, "[system]\nocr") {
		t.Fatalf("expected system section, got %q", out)
	}
}
