package flow

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/progress"
	"github.com/abhisek/quizdoc/internal/quiz"
)

// Machine holds the state of one quiz session. It is not safe for
// concurrent use; drive it from a single goroutine (the TUI update loop)
// and hand completions back through ExtractionDone and GenerationDone.
type Machine struct {
	state   State
	failure *Failure

	files   []string
	text    string
	hasText bool
	opts    quiz.Options
	request quiz.Request
	quiz    *quiz.Quiz
	answers quiz.Answers
	score   *quiz.Score

	ticket  Ticket
	tracker *progress.Tracker

	limits      extract.Limits
	progressCfg progress.Config
	logger      *zap.Logger
	onChange    func(from, to State)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLimits sets the batch limits checked by SubmitFiles.
func WithLimits(l extract.Limits) Option {
	return func(m *Machine) { m.limits = l }
}

// WithProgress sets the simulated progress curve.
func WithProgress(cfg progress.Config) Option {
	return func(m *Machine) { m.progressCfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// OnChange registers a hook called after every state change.
func OnChange(fn func(from, to State)) Option {
	return func(m *Machine) { m.onChange = fn }
}

// New returns a machine in the upload state.
func New(opts ...Option) *Machine {
	m := &Machine{
		state:       StateUpload,
		limits:      extract.DefaultLimits(),
		progressCfg: progress.DefaultConfig(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Failure returns the current failure, or nil outside the error state.
func (m *Machine) Failure() *Failure { return m.failure }

// Text returns the extracted text and whether an extraction has succeeded
// since the last restart.
func (m *Machine) Text() (string, bool) { return m.text, m.hasText }

// Files returns the names of the submitted files.
func (m *Machine) Files() []string { return m.files }

// Options returns the last submitted options, or nil.
func (m *Machine) Options() quiz.Options { return m.opts }

// Request returns the last generation request.
func (m *Machine) Request() quiz.Request { return m.request }

// Quiz returns the current quiz, or nil.
func (m *Machine) Quiz() *quiz.Quiz { return m.quiz }

// Answers returns a copy of the user's answers.
func (m *Machine) Answers() quiz.Answers { return maps.Clone(m.answers) }

// Score returns the score of the last submission, or nil.
func (m *Machine) Score() *quiz.Score { return m.score }

// Tracker returns the progress tracker of the in-flight operation, or nil.
func (m *Machine) Tracker() *progress.Tracker { return m.tracker }

// Progress returns the current simulated percentage, 0 when idle.
func (m *Machine) Progress() float64 {
	if m.tracker == nil {
		return 0
	}
	return m.tracker.Percent()
}

// SubmitFiles validates a batch and enters extracting. A batch that breaks
// the composition rules is rejected with *extract.IngestionError and the
// machine stays in upload.
func (m *Machine) SubmitFiles(files []extract.File) (Ticket, error) {
	if m.state != StateUpload {
		return 0, &TransitionError{Op: "submit files", State: m.state}
	}
	if _, err := extract.ValidateBatch(files, m.limits); err != nil {
		m.logger.Info("upload rejected", zap.Error(err))
		return 0, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	m.files = names
	m.text, m.hasText = "", false
	return m.begin(StateExtracting), nil
}

// ExtractionDone applies an extraction completion. It reports false and
// changes nothing when t is stale.
func (m *Machine) ExtractionDone(t Ticket, text string, err error) bool {
	if !m.current(t, StateExtracting) {
		m.logger.Debug("dropped stale extraction", zap.Uint64("ticket", uint64(t)))
		return false
	}
	m.finish(err == nil)

	if err != nil {
		m.fail(err, FailureExtraction, StateUpload)
		return true
	}
	m.text, m.hasText = text, true
	m.transition(StateOptions)
	return true
}

// SubmitOptions builds the generation request from the extracted text and
// enters generating.
func (m *Machine) SubmitOptions(opts quiz.Options) (Ticket, quiz.Request, error) {
	if m.state != StateOptions {
		return 0, quiz.Request{}, &TransitionError{Op: "submit options", State: m.state}
	}
	req, err := quiz.BuildRequest(m.text, opts)
	if err != nil {
		return 0, quiz.Request{}, err
	}
	m.opts = opts
	m.request = req
	return m.begin(StateGenerating), req, nil
}

// GenerationDone applies a generation completion. It reports false and
// changes nothing when t is stale. A failure keeps the extracted text and
// any previous quiz.
func (m *Machine) GenerationDone(t Ticket, q *quiz.Quiz, err error) bool {
	if !m.current(t, StateGenerating) {
		m.logger.Debug("dropped stale generation", zap.Uint64("ticket", uint64(t)))
		return false
	}
	if err == nil && (q == nil || len(q.Questions) == 0) {
		err = quiz.ErrUnparseable
	}
	m.finish(err == nil)

	if err != nil {
		m.fail(err, FailureTransport, StateOptions)
		return true
	}
	m.quiz = q
	m.answers = quiz.Answers{}
	m.score = nil
	m.transition(StateQuiz)
	return true
}

// SetAnswer records the answer to question i.
func (m *Machine) SetAnswer(i int, answer string) error {
	if m.state != StateQuiz {
		return &TransitionError{Op: "set answer", State: m.state}
	}
	if i < 0 || i >= len(m.quiz.Questions) {
		return fmt.Errorf("question %d out of range [0,%d)", i, len(m.quiz.Questions))
	}
	m.answers[i] = answer
	return nil
}

// SubmitAnswers scores the quiz and enters results.
func (m *Machine) SubmitAnswers() (quiz.Score, error) {
	if m.state != StateQuiz {
		return quiz.Score{}, &TransitionError{Op: "submit answers", State: m.state}
	}
	m.transition(StateScoring)
	s := quiz.ScoreQuiz(m.quiz, m.answers, quiz.SubjectOf(m.opts))
	m.score = &s
	m.transition(StateResults)
	return s, nil
}

// Regenerate asks for a new quiz over the same text and options.
func (m *Machine) Regenerate() (Ticket, quiz.Request, error) {
	if m.state != StateResults {
		return 0, quiz.Request{}, &TransitionError{Op: "regenerate", State: m.state}
	}
	return m.begin(StateGenerating), m.request, nil
}

// BackToOptions leaves the results to pick different options for the same
// text.
func (m *Machine) BackToOptions() error {
	if m.state != StateResults {
		return &TransitionError{Op: "back to options", State: m.state}
	}
	m.transition(StateOptions)
	return nil
}

// DismissError returns to the state preceding the failed operation.
func (m *Machine) DismissError() error {
	if m.state != StateError {
		return &TransitionError{Op: "dismiss error", State: m.state}
	}
	back := m.failure.Return
	m.failure = nil
	m.transition(back)
	return nil
}

// Restart abandons everything and returns to upload. In-flight operations
// are invalidated and their progress trackers released.
func (m *Machine) Restart() {
	m.finish(false)
	m.ticket++
	m.failure = nil
	m.files = nil
	m.text, m.hasText = "", false
	m.request = quiz.Request{}
	m.quiz = nil
	m.answers = nil
	m.score = nil
	m.transition(StateUpload)
}

// begin issues a new ticket and starts a tracker for an async state.
func (m *Machine) begin(s State) Ticket {
	m.finish(false)
	m.ticket++
	m.tracker = progress.Start(m.progressCfg)
	m.transition(s)
	return m.ticket
}

// finish releases the tracker of the in-flight operation.
func (m *Machine) finish(completed bool) {
	if m.tracker != nil {
		m.tracker.Stop(completed)
		m.tracker = nil
	}
}

func (m *Machine) current(t Ticket, s State) bool {
	return t == m.ticket && m.state == s
}

func (m *Machine) fail(err error, fallback FailureKind, back State) {
	kind, msg := Classify(err, fallback)
	m.failure = &Failure{Kind: kind, Message: msg, Err: err, Return: back}
	m.logger.Warn("operation failed",
		zap.String("kind", string(kind)),
		zap.Stringer("return", back),
		zap.Error(err),
	)
	m.transition(StateError)
}

func (m *Machine) transition(to State) {
	from := m.state
	m.state = to
	if from != to {
		m.logger.Debug("state change", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	if m.onChange != nil {
		m.onChange(from, to)
	}
}
