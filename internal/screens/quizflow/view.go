package quizflow

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdoc/internal/flow"
	"github.com/abhisek/quizdoc/internal/quiz"
	"github.com/abhisek/quizdoc/internal/ui/components"
	"github.com/abhisek/quizdoc/internal/ui/theme"
)

const contentWidth = 72

func (s *Screen) View(width, height int) string {
	var body string
	switch s.m.State() {
	case flow.StateUpload:
		body = s.viewUpload()
	case flow.StateExtracting:
		body = s.viewBusy(fmt.Sprintf("Reading %d file(s)...", len(s.m.Files())))
	case flow.StateOptions:
		body = s.viewOptions()
	case flow.StateGenerating:
		body = s.viewBusy("Generating quiz...")
	case flow.StateQuiz:
		body = s.viewQuestion()
	case flow.StateResults, flow.StateScoring:
		return s.viewResults(width, height)
	case flow.StateError:
		body = s.viewError()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *Screen) viewUpload() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Upload material") + "\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf(
		"Enter up to %d image paths, or a single PDF or Word document.",
		s.deps.Limits.MaxImages)) + "\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf(
		"PDFs may have at most %d pages.", s.deps.Limits.MaxPDFPages)) + "\n\n")
	b.WriteString(s.paths.View() + "\n")
	if s.uploadErr != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Width(contentWidth).Render(s.uploadErr) + "\n")
	}
	return b.String()
}

func (s *Screen) viewBusy(label string) string {
	bar := components.NewProgressBar("", s.m.Progress()/100, true, 50)
	return s.spinner.View() + " " + theme.Body.Render(label) + "\n\n" + bar.View()
}

func (s *Screen) viewOptions() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz options") + "\n")
	if text, ok := s.m.Text(); ok {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d characters extracted from %s",
			len([]rune(text)), strings.Join(s.m.Files(), ", "))) + "\n")
	}
	b.WriteString("\n" + s.form.View())
	if s.formErr != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.formErr) + "\n")
	}
	return b.String()
}

func (s *Screen) viewQuestion() string {
	if len(s.fields) == 0 {
		return ""
	}
	f := s.fields[s.current]
	answered := len(s.m.Answers())

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d  ·  %s",
		s.current+1, len(s.fields), f.question.Type.Label())) + "\n\n")

	wrap := lipgloss.NewStyle().Width(contentWidth)
	if f.isChoice() {
		b.WriteString(wrap.Render(f.choice.View()))
	} else {
		b.WriteString(wrap.Render(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(f.question.Question)) + "\n\n")
		b.WriteString(f.input.View() + "\n")
	}

	b.WriteString("\n" + components.NewProgressBar("Answered", float64(answered)/float64(len(s.fields)), false, 40).View())
	return b.String()
}

func (s *Screen) viewResults(width, height int) string {
	q := s.m.Quiz()
	score := s.m.Score()
	if q == nil || score == nil {
		return ""
	}
	answers := s.m.Answers()

	var lines []string
	lines = append(lines,
		theme.Title.Render(q.Title),
		theme.Subtitle.Render("Score: "+scoreLine(*score)),
	)
	if s.result != nil && s.result.Model != "" {
		lines = append(lines, theme.Hint.Render("Generated by "+s.result.Model))
	}
	lines = append(lines, "")

	wrap := lipgloss.NewStyle().Width(contentWidth)
	for i, question := range q.Questions {
		mark := theme.Incorrect.Render("✗")
		if i < len(score.Correct) && score.Correct[i] {
			mark = theme.Correct.Render("✓")
		}
		given := answers[i]
		if given == "" {
			given = "(no answer)"
		}
		block := fmt.Sprintf("%s %d. %s\n   Your answer: %s\n   Answer: %s\n   %s",
			mark, i+1, question.Question, given, question.Answer,
			theme.Hint.Render(question.Explanation))
		lines = append(lines, strings.Split(wrap.Render(block), "\n")...)
		lines = append(lines, "")
	}
	if s.status != "" {
		lines = append(lines, theme.Hint.Render(s.status))
	}

	if s.offset > len(lines)-1 {
		s.offset = len(lines) - 1
	}
	visible := lines[s.offset:]
	if len(visible) > height {
		visible = visible[:height]
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(visible, "\n"))
}

func (s *Screen) viewError() string {
	f := s.m.Failure()
	msg := "Unknown error"
	if f != nil {
		msg = f.Message
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(failureTitle(f)) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(contentWidth).Render(msg) + "\n\n")
	if f != nil && f.Return == flow.StateOptions {
		b.WriteString(theme.Hint.Render("Your extracted text is kept. Press Enter to try again."))
	} else {
		b.WriteString(theme.Hint.Render("Press Enter to choose other files."))
	}
	return b.String()
}

// scoreLine renders a one-line summary of s.
func scoreLine(s quiz.Score) string {
	return fmt.Sprintf("%d/%d (%d%%)", s.CorrectCount, s.Total, s.Percent)
}
