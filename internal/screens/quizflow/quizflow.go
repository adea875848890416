// Package quizflow is the interactive upload, options, quiz and results
// screen. All state decisions are delegated to flow.Machine; the screen
// turns its transitions into commands and renders its state.
package quizflow

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/extract"
	"github.com/abhisek/quizdoc/internal/flow"
	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/history"
	"github.com/abhisek/quizdoc/internal/progress"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/screen"
	"github.com/abhisek/quizdoc/internal/ui/components"
	"github.com/abhisek/quizdoc/internal/ui/layout"
)

// Deps are the collaborators of the screen. Recorder may be nil.
type Deps struct {
	Extractor flow.Extractor
	Generator generate.Generator
	Recorder  *history.Recorder
	Limits    extract.Limits
	Progress  progress.Config
	Logger    *zap.Logger

	// TranscriptDir is where saved transcripts are written.
	TranscriptDir string
}

// answerField is the input widget for one question.
type answerField struct {
	question quiz.Question
	choice   components.MultiChoice
	input    components.TextInput
}

func newAnswerField(q quiz.Question) answerField {
	f := answerField{question: q}
	if len(q.Options) > 0 {
		f.choice = components.NewMultiChoice(q.Question, q.Options)
	} else {
		f.input = components.NewTextInput("Type your answer...", false, 200)
	}
	return f
}

func (f answerField) isChoice() bool { return len(f.question.Options) > 0 }

func (f answerField) value() string {
	if f.isChoice() {
		return f.choice.Value()
	}
	return f.input.Value()
}

// Screen implements screen.Screen for the quiz workflow.
type Screen struct {
	deps    Deps
	m       *flow.Machine
	logger  *zap.Logger
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model

	paths     components.TextInput
	form      optionsForm
	fields    []answerField
	current   int
	offset    int
	uploadErr string
	formErr   string
	status    string

	ticket flow.Ticket
	result *generate.Result
	quizID string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Leaver = (*Screen)(nil)

// New creates the screen in the upload state.
func New(deps Deps) *Screen {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	deps.Limits = withDefaults(deps.Limits)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Screen{
		deps:    deps,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		paths:   components.NewTextInput("scan1.png scan2.png  or  notes.pdf", false, 0),
		m: flow.New(
			flow.WithLimits(deps.Limits),
			flow.WithProgress(deps.Progress),
			flow.WithLogger(logger),
		),
	}
	s.form = newOptionsForm(nil)
	return s
}

// Machine exposes the underlying state machine.
func (s *Screen) Machine() *flow.Machine { return s.m }

func (s *Screen) Init() tea.Cmd {
	return s.paths.Init()
}

// Leave cancels in-flight work and stops the progress tracker.
func (s *Screen) Leave() {
	s.cancel()
	s.m.Restart()
}

func (s *Screen) Title() string {
	switch s.m.State() {
	case flow.StateUpload:
		return "Upload"
	case flow.StateExtracting:
		return "Reading files"
	case flow.StateOptions:
		return "Quiz options"
	case flow.StateGenerating:
		return "Generating"
	case flow.StateQuiz:
		if q := s.m.Quiz(); q != nil {
			return q.Title
		}
		return "Quiz"
	case flow.StateResults, flow.StateScoring:
		return "Results"
	default:
		return "Error"
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.m.State() {
	case flow.StateUpload:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Read files"},
			{Key: "Esc", Description: "Back"},
		}
	case flow.StateOptions:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Enter", Description: "Generate"},
			{Key: "Ctrl+N", Description: "New files"},
		}
	case flow.StateQuiz:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Answer"},
			{Key: "Tab", Description: "Next"},
			{Key: "Shift+Tab", Description: "Previous"},
			{Key: "Ctrl+S", Description: "Submit"},
		}
	case flow.StateResults:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "R", Description: "Regenerate"},
			{Key: "O", Description: "Options"},
			{Key: "N", Description: "New files"},
			{Key: "S", Description: "Save transcript"},
		}
	case flow.StateError:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case extractedMsg:
		return s.handleExtracted(msg)
	case generatedMsg:
		return s.handleGenerated(msg)
	case progressMsg:
		if msg.open && msg.tracker == s.m.Tracker() {
			return s, waitProgress(msg.tracker)
		}
		return s, nil
	case spinner.TickMsg:
		if !s.m.State().Busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case quizSavedMsg:
		if msg.err != nil {
			s.logger.Warn("save quiz failed", zap.Error(msg.err))
			return s, nil
		}
		if msg.ticket == s.ticket {
			s.quizID = msg.id
		}
		return s, nil
	case attemptSavedMsg:
		if msg.err != nil {
			s.logger.Warn("save attempt failed", zap.Error(msg.err))
		}
		return s, nil
	case transcriptSavedMsg:
		if msg.err != nil {
			s.status = "Could not save transcript: " + msg.err.Error()
		} else {
			s.status = "Transcript saved to " + msg.path
		}
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *Screen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.m.State() {
	case flow.StateUpload:
		s.paths, cmd = s.paths.Update(msg)
	case flow.StateOptions:
		s.form, cmd = s.form.Update(msg)
	case flow.StateQuiz:
		if s.current < len(s.fields) {
			f := &s.fields[s.current]
			if f.isChoice() {
				f.choice, cmd = f.choice.Update(msg)
			} else {
				f.input, cmd = f.input.Update(msg)
			}
		}
	}
	return s, cmd
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.m.State() {
	case flow.StateUpload:
		if msg.String() == "enter" {
			return s, s.submitFiles()
		}
	case flow.StateOptions:
		switch msg.String() {
		case "enter":
			return s, s.submitOptions()
		case "ctrl+n":
			return s, s.restart()
		}
	case flow.StateQuiz:
		return s.handleQuizKey(msg)
	case flow.StateResults:
		return s.handleResultsKey(msg)
	case flow.StateError:
		if msg.String() == "enter" {
			if err := s.m.DismissError(); err != nil {
				s.logger.Debug("dismiss", zap.Error(err))
			}
			if s.m.State() == flow.StateUpload {
				return s, s.paths.Focus()
			}
		}
		return s, nil
	default:
		return s, nil
	}
	return s.forward(msg)
}

func (s *Screen) handleQuizKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return s, s.focusQuestion(s.current + 1)
	case "shift+tab":
		return s, s.focusQuestion(s.current - 1)
	case "ctrl+s":
		return s, s.submitAnswers()
	case "enter":
		f := &s.fields[s.current]
		if f.isChoice() {
			f.choice, _ = f.choice.Update(msg)
		}
		s.record(s.current)
		if s.current == len(s.fields)-1 {
			return s, s.submitAnswers()
		}
		return s, s.focusQuestion(s.current + 1)
	}
	next, cmd := s.forward(msg)
	s.record(s.current)
	return next, cmd
}

func (s *Screen) handleResultsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		s.offset++
	case "r":
		t, req, err := s.m.Regenerate()
		if err != nil {
			s.logger.Debug("regenerate", zap.Error(err))
			return s, nil
		}
		return s, s.startGeneration(t, req)
	case "o":
		if err := s.m.BackToOptions(); err == nil {
			s.form = newOptionsForm(s.m.Options())
		}
	case "n":
		return s, s.restart()
	case "s":
		if q := s.m.Quiz(); q != nil {
			return s, saveTranscriptCmd(s.deps.TranscriptDir, q, s.now())
		}
	}
	return s, nil
}

func (s *Screen) submitFiles() tea.Cmd {
	s.uploadErr = ""
	paths := splitPaths(s.paths.Value())
	files, err := extract.ReadFiles(paths)
	if err != nil {
		s.uploadErr = err.Error()
		return nil
	}
	t, err := s.m.SubmitFiles(files)
	if err != nil {
		_, s.uploadErr = flow.Classify(err, flow.FailureIngestion)
		return nil
	}
	s.paths.Blur()
	return tea.Batch(
		extractCmd(s.ctx, s.deps.Extractor, t, files),
		waitProgress(s.m.Tracker()),
		s.spinner.Tick,
	)
}

func (s *Screen) handleExtracted(msg extractedMsg) (screen.Screen, tea.Cmd) {
	if !s.m.ExtractionDone(msg.ticket, msg.text, msg.err) {
		return s, nil
	}
	if s.m.State() == flow.StateOptions {
		s.form = newOptionsForm(s.m.Options())
		s.formErr = ""
	}
	return s, nil
}

func (s *Screen) submitOptions() tea.Cmd {
	opts, err := s.form.Options()
	if err != nil {
		s.formErr = err.Error()
		return nil
	}
	s.formErr = ""
	t, req, err := s.m.SubmitOptions(opts)
	if err != nil {
		s.formErr = err.Error()
		return nil
	}
	return s.startGeneration(t, req)
}

func (s *Screen) startGeneration(t flow.Ticket, req quiz.Request) tea.Cmd {
	s.ticket = t
	s.quizID = ""
	s.status = ""
	return tea.Batch(
		generateCmd(s.ctx, s.deps.Generator, t, req),
		waitProgress(s.m.Tracker()),
		s.spinner.Tick,
	)
}

func (s *Screen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	var q *quiz.Quiz
	if msg.err == nil && msg.result != nil {
		q = msg.result.Quiz
	}
	if !s.m.GenerationDone(msg.ticket, q, msg.err) {
		return s, nil
	}
	if s.m.State() != flow.StateQuiz {
		return s, nil
	}

	s.result = msg.result
	s.fields = make([]answerField, len(q.Questions))
	for i, question := range q.Questions {
		s.fields[i] = newAnswerField(question)
	}
	s.offset = 0
	return s, tea.Batch(
		s.focusQuestion(0),
		saveQuizCmd(s.deps.Recorder, msg.ticket, s.m.Request(), msg.result, s.m.Files()),
	)
}

func (s *Screen) focusQuestion(i int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.fields) {
		i = len(s.fields) - 1
	}
	if f := &s.fields[s.current]; !f.isChoice() {
		f.input.Blur()
	}
	s.current = i
	if f := &s.fields[i]; !f.isChoice() {
		return f.input.Focus()
	}
	return nil
}

func (s *Screen) record(i int) {
	if err := s.m.SetAnswer(i, s.fields[i].value()); err != nil {
		s.logger.Debug("set answer", zap.Error(err))
	}
}

func (s *Screen) submitAnswers() tea.Cmd {
	for i := range s.fields {
		s.record(i)
	}
	score, err := s.m.SubmitAnswers()
	if err != nil {
		s.logger.Debug("submit answers", zap.Error(err))
		return nil
	}
	for i := range s.fields {
		if f := &s.fields[i]; f.isChoice() {
			f.choice.Reveal(f.question.Answer)
		} else {
			f.input.Blur()
		}
	}
	s.offset = 0
	return saveAttemptCmd(s.deps.Recorder, s.quizID, s.m.Answers(), score)
}

func (s *Screen) restart() tea.Cmd {
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.m.Restart()
	s.fields = nil
	s.current = 0
	s.result = nil
	s.quizID = ""
	s.status = ""
	s.uploadErr = ""
	s.paths.SetValue("")
	return s.paths.Focus()
}

func withDefaults(l extract.Limits) extract.Limits {
	d := extract.DefaultLimits()
	if l.MaxImages <= 0 {
		l.MaxImages = d.MaxImages
	}
	if l.MaxPDFPages <= 0 {
		l.MaxPDFPages = d.MaxPDFPages
	}
	return l
}

// failureTitle names the failure shown in the error state.
func failureTitle(f *flow.Failure) string {
	if f == nil {
		return "Something went wrong"
	}
	switch f.Kind {
	case flow.FailureIngestion:
		return "Upload rejected"
	case flow.FailureExtraction:
		return "Could not read the files"
	case flow.FailureParse:
		return "Could not understand the quiz"
	default:
		return "Quiz generation failed"
	}
}
