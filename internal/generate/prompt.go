package generate

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizdoc/internal/quiz"
)

const systemPrompt = `You are a teacher writing a quiz that checks understanding of the provided source material.

Rules:
- Only ask about facts, ideas and procedures that appear in the source material.
- Produce exactly the requested number of questions, all of the requested type.
- For "mcq" questions give four options where exactly one is correct. The answer must repeat the text of the correct option.
- For "true_false" questions use the options "True" and "False" and answer with one of them.
- For "open" questions leave options empty and give a short model answer.
- Every question has a one or two sentence explanation.
- Write the quiz in the requested language.
- Respond with JSON only: {"title": "...", "questions": [{"question": "...", "type": "...", "options": [...], "answer": "...", "explanation": "..."}]}`

const mathRules = `
Math rules:
- Write mathematical expressions in LaTeX wrapped in $...$.
- Answers of computation questions are the final value only, for example $\frac{3}{4}$.`

// buildSystemPrompt appends the math rules for math quizzes.
func buildSystemPrompt(req quiz.Request) string {
	if req.Subject == quiz.SubjectMath {
		return systemPrompt + "\n" + mathRules
	}
	return systemPrompt
}

// buildUserMessage describes the requested quiz followed by the source.
func buildUserMessage(req quiz.Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question type: %s\n", req.QuizType)
	fmt.Fprintf(&b, "Number of questions: %d\n", quiz.ClampCount(req.NumberOfQuestions))
	lang := req.Language
	if lang == "" {
		lang = "the language of the source material"
	}
	fmt.Fprintf(&b, "Language: %s\n", lang)
	if req.Subject == quiz.SubjectMath && req.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	}

	b.WriteString("\nSource material:\n")
	b.WriteString(TruncateRunes(strings.TrimSpace(req.Text), cfg.MaxSourceChars))
	return b.String()
}

// TruncateRunes cuts s to at most n runes. n <= 0 leaves s unchanged.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
