package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name      string
		given     string
		canonical string
		subject   Subject
		want      bool
	}{
		{"math delimiters stripped", "42", "$42$", SubjectMath, true},
		{"math delimiters with spaces", " 42 ", "$ 42 $", SubjectMath, true},
		{"text keeps delimiters", "42", "$42$", SubjectText, false},
		{"only one pair stripped", "$x$", "$$x$$", SubjectMath, true},
		{"true any case", "true", "True", SubjectText, true},
		{"TRUE any case", "TRUE", "True", SubjectText, true},
		{"false vs true", "true", "False", SubjectText, false},
		{"trimmed", "  Paris ", "paris", SubjectText, true},
		{"empty", "", "Paris", SubjectText, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsCorrect(tc.given, tc.canonical, tc.subject))
		})
	}
}

func TestScoreQuiz(t *testing.T) {
	q := &Quiz{Title: "T", Questions: []Question{
		{Question: "a", Answer: "True", Type: TrueFalse},
		{Question: "b", Answer: "Paris", Type: MultipleChoice, Options: []string{"Paris"}},
		{Question: "c", Answer: "x", Type: Open},
	}}

	s := ScoreQuiz(q, Answers{0: "true", 1: "paris"}, SubjectText)
	assert.Equal(t, []bool{true, true, false}, s.Correct)
	assert.Equal(t, 2, s.CorrectCount)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 67, s.Percent)

	s = ScoreQuiz(q, Answers{}, SubjectText)
	assert.Equal(t, 0, s.CorrectCount)
	assert.Equal(t, 0, s.Percent)

	s = ScoreQuiz(q, Answers{0: "True", 1: "Paris", 2: "X", 7: "ignored"}, SubjectText)
	assert.Equal(t, 100, s.Percent)
}

func TestScoreQuiz_Empty(t *testing.T) {
	assert.Equal(t, 0, ScoreQuiz(&Quiz{}, Answers{0: "a"}, SubjectText).Percent)
	assert.Equal(t, Score{}, ScoreQuiz(nil, nil, SubjectMath))
}

func TestTranscript(t *testing.T) {
	q := &Quiz{Title: "Capitals", Questions: []Question{
		{Question: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris", Explanation: "It is.", Type: MultipleChoice},
		{Question: "Describe Rome.", Answer: OpenPlaceholder, Explanation: NoExplanation, Type: Open},
	}}
	out := Transcript(q)

	assert.True(t, strings.HasPrefix(out, "Capitals\n========\n"))
	assert.Contains(t, out, "1. Capital of France?\n   A) Paris\n   B) Rome\n   Answer: Paris\n   Explanation: It is.\n")
	assert.Contains(t, out, "2. Describe Rome.\n   Answer: Answers may vary.\n")
	assert.Empty(t, Transcript(nil))
}
