package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/llm"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/remote"
)

// defaultQuestions is used when a request omits numberOfQuestions.
const defaultQuestions = 5

// generateBody is the wire request. Fields beyond the four core ones are
// optional extensions.
type generateBody struct {
	Text              string `json:"text"`
	QuizType          string `json:"quizType"`
	NumberOfQuestions *int   `json:"numberOfQuestions"`
	Language          string `json:"language"`
	Subject           string `json:"subject"`
	Difficulty        string `json:"difficulty"`
}

func (b generateBody) request() quiz.Request {
	n := defaultQuestions
	if b.NumberOfQuestions != nil {
		n = *b.NumberOfQuestions
	}
	req := quiz.Request{
		Text:              strings.TrimSpace(b.Text),
		QuizType:          quiz.MapQuizType(b.QuizType),
		NumberOfQuestions: quiz.ClampCount(n),
		Language:          strings.TrimSpace(b.Language),
		Subject:           quiz.SubjectText,
	}
	if quiz.Subject(strings.ToLower(b.Subject)) == quiz.SubjectMath {
		req.Subject = quiz.SubjectMath
		req.Difficulty = strings.ToLower(strings.TrimSpace(b.Difficulty))
	}
	return req
}

func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if s.completer == nil {
		writeError(w, http.StatusServiceUnavailable, "Quiz generation is not configured")
		return
	}

	var body generateBody
	dec := json.NewDecoder(io.LimitReader(r.Body, s.maxUploadBytes()))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req := body.request()
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	resp, err := s.completer.Complete(r.Context(), req)
	if err != nil {
		s.metrics.failures.WithLabelValues("generation").Inc()
		s.logger.Warn("quiz generation failed", zap.Error(err))
		writeError(w, generationStatus(err), generationMessage(err))
		return
	}

	s.metrics.quizzes.WithLabelValues(string(req.QuizType)).Inc()
	writeJSON(w, http.StatusOK, remote.ChatCompletion{
		ID:     "quiz-" + uuid.NewString(),
		Object: "chat.completion",
		Model:  resp.Model,
		Choices: []remote.Choice{{
			Index:        0,
			Message:      remote.Message{Role: "assistant", Content: remote.Content(resp.Text())},
			FinishReason: finishReason(resp.StopReason),
		}},
	})
}

// extractResponse is the body of a successful /api/extract call.
type extractResponse struct {
	Text  string   `json:"text"`
	Files []string `json:"files"`
	Chars int      `json:"chars"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "Extraction is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, "Expected a multipart form with files")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := formFiles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	text, err := s.extractor.Extract(r.Context(), files)
	if err != nil {
		status, kind := extractionStatus(err)
		s.metrics.failures.WithLabelValues(kind).Inc()
		s.logger.Warn("extraction failed", zap.String("kind", kind), zap.Error(err))
		writeError(w, status, err.Error())
		return
	}
	s.metrics.extracted.Observe(float64(len(text)))
	s.logger.Debug("extracted", zap.Int("files", len(files)), zap.Duration("took", time.Since(start)))

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	writeJSON(w, http.StatusOK, extractResponse{Text: text, Files: names, Chars: len([]rune(text))})
}

// formFiles reads every uploaded part, in order, from the "files" field
// and then from "file".
func formFiles(r *http.Request) ([]extract.File, error) {
	var out []extract.File
	for _, field := range []string{"files", "file"} {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			out = append(out, extract.File{
				Name:      fh.Filename,
				MediaType: fh.Header.Get("Content-Type"),
				Data:      data,
			})
		}
	}
	return out, nil
}

func (s *Server) maxUploadBytes() int64 {
	mb := s.cfg.MaxUploadMB
	if mb <= 0 {
		mb = 25
	}
	return mb << 20
}

func extractionStatus(err error) (int, string) {
	var ingest *extract.IngestionError
	if errors.As(err, &ingest) {
		return http.StatusBadRequest, "ingestion"
	}
	return http.StatusUnprocessableEntity, "extraction"
}

func generationStatus(err error) int {
	var (
		rate        *llm.ErrRateLimit
		unavailable *llm.ErrProviderUnavailable
	)
	switch {
	case errors.As(err, &rate):
		return http.StatusTooManyRequests
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func generationMessage(err error) string {
	var rate *llm.ErrRateLimit
	if errors.As(err, &rate) {
		return "The model is rate limited. Please try again shortly."
	}
	return remote.GenericFailure
}

func finishReason(stop string) string {
	switch stop {
	case "max_tokens":
		return "length"
	default:
		return "stop"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, remote.ErrorBody{Error: msg})
}
