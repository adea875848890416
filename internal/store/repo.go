package store

import (
	"context"
	"time"
)

// QueryOpts configures record queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int       `sql:"id"`
	Sequence  int64     `sql:"sequence"`
	Timestamp time.Time `sql:"timestamp"`

	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Purpose      string `sql:"purpose"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
	Success      bool   `sql:"success"`
	ErrorMessage string `sql:"error_message"`
	RequestBody  string `sql:"request_body"`
	ResponseBody string `sql:"response_body"`
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string `sql:"purpose"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	AvgLatencyMs int64  `sql:"avg_latency_ms"`
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string `sql:"model"`
	Calls        int    `sql:"calls"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// QuizData is a generated quiz as handed to the store. Payload is the
// normalized quiz encoded as JSON; Completion is the raw model output.
type QuizData struct {
	Title         string
	Subject       string
	QuizType      string
	Language      string
	Difficulty    string
	QuestionCount int
	SourceHash    string
	SourceChars   int
	SourceFiles   string
	Completion    string
	Payload       string
}

// QuizRecord is a stored quiz.
type QuizRecord struct {
	ID        string    `sql:"id"`
	Sequence  int64     `sql:"sequence"`
	Timestamp time.Time `sql:"timestamp"`

	Title         string `sql:"title"`
	Subject       string `sql:"subject"`
	QuizType      string `sql:"quiz_type"`
	Language      string `sql:"language"`
	Difficulty    string `sql:"difficulty"`
	QuestionCount int    `sql:"question_count"`
	SourceHash    string `sql:"source_hash"`
	SourceChars   int    `sql:"source_chars"`
	SourceFiles   string `sql:"source_files"`
	Completion    string `sql:"completion"`
	Payload       string `sql:"payload"`
}

// AttemptData is one scored pass over a stored quiz. Answers is the
// user's answers encoded as JSON.
type AttemptData struct {
	QuizID  string
	Correct int
	Total   int
	Percent int
	Answers string
}

// AttemptRecord is a stored attempt.
type AttemptRecord struct {
	ID        string    `sql:"id"`
	Sequence  int64     `sql:"sequence"`
	Timestamp time.Time `sql:"timestamp"`

	QuizID  string `sql:"quiz_id"`
	Correct int    `sql:"correct"`
	Total   int    `sql:"total"`
	Percent int    `sql:"percent"`
	Answers string `sql:"answers"`
}

// QuizRepo stores generated quizzes and the attempts made on them.
type QuizRepo interface {
	// SaveQuiz stores a quiz and returns its generated ID.
	SaveQuiz(ctx context.Context, data QuizData) (string, error)

	// GetQuiz returns one quiz, or nil if it does not exist.
	GetQuiz(ctx context.Context, id string) (*QuizRecord, error)

	// ListQuizzes returns quizzes newest first.
	ListQuizzes(ctx context.Context, opts QueryOpts) ([]QuizRecord, error)

	// AppendAttempt stores a scored attempt and returns its generated ID.
	AppendAttempt(ctx context.Context, data AttemptData) (string, error)

	// ListAttempts returns the attempts on a quiz, oldest first.
	ListAttempts(ctx context.Context, quizID string) ([]AttemptRecord, error)
}
