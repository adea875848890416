package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	qhistory "github.com/abhisek/quizdoc/internal/history"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/router"
	"github.com/abhisek/quizdoc/internal/screen"
	"github.com/abhisek/quizdoc/internal/store"
	"github.com/abhisek/quizdoc/internal/ui/layout"
	"github.com/abhisek/quizdoc/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Quizzes []store.QuizRecord
	Err     error
}

type entryLoadedMsg struct {
	Entry *qhistory.Entry
	Err   error
}

// HistoryScreen lists stored quizzes and shows one with its attempts.
type HistoryScreen struct {
	repo     store.QuizRepo
	quizzes  []store.QuizRecord
	selected int
	loaded   bool
	errMsg   string

	entry  *qhistory.Entry
	offset int
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.QuizRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		recs, err := s.repo.ListQuizzes(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Quizzes: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	if s.entry != nil {
		return s.entry.Quiz.Title
	}
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.entry != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Backspace", Description: "List"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.quizzes = msg.Quizzes
		}
		s.loaded = true
		return s, nil

	case entryLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.entry = msg.Entry
		s.offset = 0
		return s, nil

	case tea.KeyMsg:
		if s.entry != nil {
			return s.updateEntry(msg)
		}
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.quizzes)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.quizzes) {
				return s, s.open(s.quizzes[s.selected].ID)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) updateEntry(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "backspace", "left", "h":
		s.entry = nil
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		s.offset++
	}
	return s, nil
}

func (s *HistoryScreen) open(id string) tea.Cmd {
	return func() tea.Msg {
		e, err := qhistory.Load(context.Background(), s.repo, id)
		if err == nil && e == nil {
			err = fmt.Errorf("quiz %s not found", id)
		}
		return entryLoadedMsg{Entry: e, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if s.entry != nil {
		return s.viewEntry(width, height)
	}
	if len(s.quizzes) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Upload something to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.quizzes {
		dateStr := rec.Timestamp.Format("Jan 02, 2006 15:04")

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-32s  %2d × %-16s  %s",
			prefix, dateStr, truncate(rec.Title, 32), rec.QuestionCount,
			quiz.QuestionType(rec.QuizType).Label(), rec.Subject)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *HistoryScreen) viewEntry(width, height int) string {
	e := s.entry
	var lines []string

	meta := fmt.Sprintf("%s  ·  %s  ·  %d chars from %s",
		e.Record.Timestamp.Format("Jan 02, 2006 15:04"), e.Record.Subject,
		e.Record.SourceChars, e.Record.SourceFiles)
	lines = append(lines, theme.Hint.Render(meta), "")

	if len(e.Attempts) == 0 {
		lines = append(lines, theme.Hint.Render("Not attempted yet."))
	}
	for _, a := range e.Attempts {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Secondary).Render(
			fmt.Sprintf("Attempt %s: %d/%d (%d%%)", a.Timestamp.Format("Jan 02 15:04"), a.Correct, a.Total, a.Percent)))
	}
	lines = append(lines, "")
	lines = append(lines, strings.Split(quiz.Transcript(e.Quiz), "\n")...)

	if s.offset > len(lines)-1 {
		s.offset = len(lines) - 1
	}
	visible := lines[s.offset:]
	if len(visible) > height {
		visible = visible[:height]
	}
	return lipgloss.NewStyle().Width(width).PaddingLeft(4).Render(strings.Join(visible, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
