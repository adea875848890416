package quiz

import (
	"math"
	"strings"
)

// Score is the derived result of grading a quiz.
type Score struct {
	Correct      []bool `json:"correct"`
	CorrectCount int    `json:"correctCount"`
	Total        int    `json:"total"`
	Percent      int    `json:"percent"`
}

// ScoreQuiz grades answers against q. Unanswered questions are incorrect.
// Percent is round(100*correct/total), or 0 for an empty quiz.
func ScoreQuiz(q *Quiz, answers Answers, subject Subject) Score {
	if q == nil {
		return Score{}
	}
	s := Score{
		Correct: make([]bool, len(q.Questions)),
		Total:   len(q.Questions),
	}
	for i, question := range q.Questions {
		given, ok := answers[i]
		if !ok {
			continue
		}
		if IsCorrect(given, question.Answer, subject) {
			s.Correct[i] = true
			s.CorrectCount++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(100 * float64(s.CorrectCount) / float64(s.Total)))
	}
	return s
}

// IsCorrect compares a user answer with the canonical one, trimmed and
// case-insensitively. For math quizzes one enclosing pair of $ delimiters
// is removed from the canonical answer first.
func IsCorrect(given, canonical string, subject Subject) bool {
	canonical = strings.TrimSpace(canonical)
	if subject == SubjectMath {
		canonical = stripMathDelimiters(canonical)
	}
	return strings.EqualFold(strings.TrimSpace(given), canonical)
}

func stripMathDelimiters(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
