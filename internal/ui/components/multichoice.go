package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/ui/theme"
)

// MultiChoice is a selector over a question's options. The chosen option
// can be changed until the quiz is submitted; Reveal switches it to a
// read-only view marking the canonical answer.
type MultiChoice struct {
	Question    string
	Options     []string
	Selected    int
	ChosenIndex int

	revealed bool
	correct  string
}

// NewMultiChoice creates a selector with nothing chosen yet.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:    question,
		Options:     options,
		ChosenIndex: -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Letter keys choose the
// matching option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.ChosenIndex = m.Selected
	default:
		if len(key) == 1 {
			for i := range m.Options {
				if quiz.OptionLabel(i) == strings.ToUpper(key) {
					m.Selected = i
					m.ChosenIndex = i
					break
				}
			}
		}
	}

	return m, nil
}

// Choose marks the option equal to value as chosen, if any.
func (m *MultiChoice) Choose(value string) {
	for i, opt := range m.Options {
		if opt == value {
			m.Selected = i
			m.ChosenIndex = i
			return
		}
	}
}

// Value returns the chosen option text, or "" when nothing is chosen.
func (m MultiChoice) Value() string {
	if m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return ""
	}
	return m.Options[m.ChosenIndex]
}

// Reveal freezes the selector and highlights the canonical answer.
func (m *MultiChoice) Reveal(correct string) {
	m.revealed = true
	m.correct = correct
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		mark := " "
		if i == m.ChosenIndex {
			mark = "●"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, quiz.OptionLabel(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && opt == m.correct:
			style = style.Foreground(theme.Success).Bold(true)
		case m.revealed && i == m.ChosenIndex:
			style = style.Foreground(theme.Error).Bold(true)
		case m.revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		s += style.Render(line) + "\n"
	}

	return s
}
