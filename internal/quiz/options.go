package quiz

import "fmt"

// Subject discriminates the variants of Options.
type Subject string

const (
	SubjectText Subject = "text"
	SubjectMath Subject = "math"
)

// Options is the user's quiz configuration. It is a closed sum type:
// exactly one of TextOptions or MathOptions.
type Options interface {
	Subject() Subject
	isOptions()
}

// TextOptions configures a quiz over general text material.
type TextOptions struct {
	NumberOfQuestions int
	QuizType          string
	Language          string
}

// MathOptions configures a quiz over math material.
type MathOptions struct {
	NumberOfQuestions int
	MathQuizType      string
	Difficulty        string
	Language          string
}

func (TextOptions) Subject() Subject { return SubjectText }
func (MathOptions) Subject() Subject { return SubjectMath }

func (TextOptions) isOptions() {}
func (MathOptions) isOptions() {}

// Difficulty levels accepted for math quizzes.
var Difficulties = []string{"easy", "medium", "hard"}

// NewOptions builds the variant selected by subject. Fields that do not
// belong to the chosen variant are ignored.
func NewOptions(subject Subject, count int, quizType, difficulty, language string) (Options, error) {
	switch subject {
	case SubjectText, "":
		return TextOptions{NumberOfQuestions: count, QuizType: quizType, Language: language}, nil
	case SubjectMath:
		return MathOptions{NumberOfQuestions: count, MathQuizType: quizType, Difficulty: difficulty, Language: language}, nil
	default:
		return nil, fmt.Errorf("unknown subject %q", subject)
	}
}

// SubjectOf returns the subject of opts, defaulting to text for nil.
func SubjectOf(opts Options) Subject {
	if opts == nil {
		return SubjectText
	}
	return opts.Subject()
}
