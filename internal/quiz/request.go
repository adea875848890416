package quiz

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MinQuestions = 1
	MaxQuestions = 15
)

// Request is the JSON body sent to the generation endpoint.
type Request struct {
	Text              string       `json:"text"`
	QuizType          QuestionType `json:"quizType"`
	NumberOfQuestions int          `json:"numberOfQuestions,omitempty"`
	Language          string       `json:"language,omitempty"`
	Subject           Subject      `json:"subject,omitempty"`
	Difficulty        string       `json:"difficulty,omitempty"`
}

// MapQuizType reduces any quiz type spelling to one of the three wire tags.
// The input is lower-cased and stripped of separators; "true" or "false"
// anywhere selects TrueFalse, "open" anywhere selects Open, and everything
// else is MultipleChoice. Wire tags map to themselves.
func MapQuizType(s string) QuestionType {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	key := b.String()

	switch {
	case strings.Contains(key, "true"), strings.Contains(key, "false"):
		return TrueFalse
	case strings.Contains(key, "open"):
		return Open
	default:
		return MultipleChoice
	}
}

// ClampCount bounds a requested question count to [MinQuestions, MaxQuestions].
func ClampCount(n int) int {
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}

// BuildRequest maps source text and options to the generation payload.
func BuildRequest(text string, opts Options) (Request, error) {
	switch o := opts.(type) {
	case TextOptions:
		return Request{
			Text:              text,
			QuizType:          MapQuizType(o.QuizType),
			NumberOfQuestions: ClampCount(o.NumberOfQuestions),
			Language:          strings.TrimSpace(o.Language),
			Subject:           SubjectText,
		}, nil
	case MathOptions:
		return Request{
			Text:              text,
			QuizType:          MapQuizType(o.MathQuizType),
			NumberOfQuestions: ClampCount(o.NumberOfQuestions),
			Language:          strings.TrimSpace(o.Language),
			Subject:           SubjectMath,
			Difficulty:        strings.ToLower(strings.TrimSpace(o.Difficulty)),
		}, nil
	case nil:
		return Request{}, fmt.Errorf("quiz options are required")
	default:
		return Request{}, fmt.Errorf("unsupported quiz options %T", opts)
	}
}
