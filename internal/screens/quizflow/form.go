package quizflow

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/ui/components"
	"github.com/abhisek/quizdoc/internal/ui/theme"
)

// DefaultQuestionCount is used when the count field is left blank.
const DefaultQuestionCount = 5

type formField int

const (
	fieldSubject formField = iota
	fieldType
	fieldCount
	fieldDifficulty
	fieldLanguage
)

var (
	subjects  = []quiz.Subject{quiz.SubjectText, quiz.SubjectMath}
	quizTypes = []quiz.QuestionType{quiz.MultipleChoice, quiz.TrueFalse, quiz.Open}
)

// optionsForm edits a quiz.Options value. Choice fields cycle with left
// and right; count and language are free text.
type optionsForm struct {
	focus      formField
	subject    int
	quizType   int
	difficulty int
	count      components.TextInput
	language   components.TextInput
}

func newOptionsForm(defaults quiz.Options) optionsForm {
	f := optionsForm{
		count:    components.NewTextInput(strconv.Itoa(DefaultQuestionCount), true, 2),
		language: components.NewTextInput("same as the material", false, 40),
	}
	f.count.Blur()
	f.language.Blur()
	f.difficulty = 1

	switch o := defaults.(type) {
	case quiz.TextOptions:
		f.quizType = indexOfType(quiz.MapQuizType(o.QuizType))
		f.setCount(o.NumberOfQuestions)
		f.language.SetValue(o.Language)
	case quiz.MathOptions:
		f.subject = 1
		f.quizType = indexOfType(quiz.MapQuizType(o.MathQuizType))
		f.setCount(o.NumberOfQuestions)
		f.language.SetValue(o.Language)
		for i, d := range quiz.Difficulties {
			if d == o.Difficulty {
				f.difficulty = i
			}
		}
	}
	return f
}

func indexOfType(t quiz.QuestionType) int {
	for i, qt := range quizTypes {
		if qt == t {
			return i
		}
	}
	return 0
}

func (f *optionsForm) setCount(n int) {
	if n > 0 {
		f.count.SetValue(strconv.Itoa(n))
	}
}

func (f optionsForm) isMath() bool {
	return subjects[f.subject] == quiz.SubjectMath
}

// visible returns the fields shown for the current subject, in order.
func (f optionsForm) visible() []formField {
	if f.isMath() {
		return []formField{fieldSubject, fieldType, fieldCount, fieldDifficulty, fieldLanguage}
	}
	return []formField{fieldSubject, fieldType, fieldCount, fieldLanguage}
}

func (f *optionsForm) move(delta int) tea.Cmd {
	fields := f.visible()
	pos := 0
	for i, ff := range fields {
		if ff == f.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	f.focus = fields[pos]

	f.count.Blur()
	f.language.Blur()
	switch f.focus {
	case fieldCount:
		return f.count.Focus()
	case fieldLanguage:
		return f.language.Focus()
	}
	return nil
}

func cycle(i, delta, n int) int {
	return (i + delta + n) % n
}

func (f optionsForm) Update(msg tea.Msg) (optionsForm, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "shift+tab":
			cmd := f.move(-1)
			return f, cmd
		case "down", "tab":
			cmd := f.move(1)
			return f, cmd
		case "left", "right":
			delta := 1
			if kmsg.String() == "left" {
				delta = -1
			}
			switch f.focus {
			case fieldSubject:
				f.subject = cycle(f.subject, delta, len(subjects))
				return f, nil
			case fieldType:
				f.quizType = cycle(f.quizType, delta, len(quizTypes))
				return f, nil
			case fieldDifficulty:
				f.difficulty = cycle(f.difficulty, delta, len(quiz.Difficulties))
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldCount:
		f.count, cmd = f.count.Update(msg)
	case fieldLanguage:
		f.language, cmd = f.language.Update(msg)
	}
	return f, cmd
}

// Options builds the selected variant. A blank count means the default;
// out-of-range counts are clamped when the request is built.
func (f optionsForm) Options() (quiz.Options, error) {
	count := DefaultQuestionCount
	if v := strings.TrimSpace(f.count.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("number of questions: %w", err)
		}
		count = n
	}
	return quiz.NewOptions(
		subjects[f.subject],
		count,
		string(quizTypes[f.quizType]),
		quiz.Difficulties[f.difficulty],
		strings.TrimSpace(f.language.Value()),
	)
}

func (f optionsForm) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(22)
	var b strings.Builder
	for _, ff := range f.visible() {
		focused := ff == f.focus
		prefix := "  "
		if focused {
			prefix = "▸ "
		}

		var name, value string
		switch ff {
		case fieldSubject:
			name, value = "Subject", choice(string(subjects[f.subject]), focused)
		case fieldType:
			name, value = "Question type", choice(quizTypes[f.quizType].Label(), focused)
		case fieldCount:
			name = fmt.Sprintf("Questions (%d-%d)", quiz.MinQuestions, quiz.MaxQuestions)
			value = f.count.View()
		case fieldDifficulty:
			name, value = "Difficulty", choice(quiz.Difficulties[f.difficulty], focused)
		case fieldLanguage:
			name, value = "Language", f.language.View()
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if focused {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(prefix) + label.Render(name) + value + "\n")
	}
	return b.String()
}

func choice(value string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("◂ " + value + " ▸")
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render("  " + value)
}
