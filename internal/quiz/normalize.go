package quiz

import (
	"errors"
	"slices"
	"strings"
)

// ErrUnparseable is returned when no question can be recovered from a
// completion.
var ErrUnparseable = errors.New("could not parse a valid quiz from the response")

// Field aliases, in priority order.
var (
	questionKeys    = []string{"question", "prompt", "stem", "text"}
	typeKeys        = []string{"type", "questionType", "format"}
	optionKeys      = []string{"options", "choices", "answers", "optionsList"}
	answerKeys      = []string{"answer", "correctAnswer", "correct_answer", "correct"}
	explanationKeys = []string{"explanation", "rationale", "reason"}
)

// Normalize converts a raw completion into a Quiz. JSON content (fenced or
// bare) is tried first; plain-text question blocks are the fallback. It
// fails with ErrUnparseable only when no question survives.
func Normalize(raw string, requested QuestionType) (*Quiz, error) {
	q, _, err := NormalizeWithSource(raw, requested)
	return q, err
}

// Source reports which path produced a normalized quiz.
type Source string

const (
	SourceJSON Source = "json"
	SourceText Source = "text"
)

// NormalizeWithSource is Normalize that also reports the path taken.
func NormalizeWithSource(raw string, requested QuestionType) (*Quiz, Source, error) {
	requested = MapQuizType(string(requested))

	for _, candidate := range jsonCandidates(raw) {
		payload, err := decodeJSON(candidate)
		if err != nil {
			continue
		}
		if title, questions, _ := resolveShape(payload, requested); len(questions) > 0 {
			return &Quiz{Title: title, Questions: questions}, SourceJSON, nil
		}
	}

	if questions := parseBlocks(raw, requested); len(questions) > 0 {
		return &Quiz{Title: DefaultTitle, Questions: questions}, SourceText, nil
	}

	return nil, "", ErrUnparseable
}

func mapQuestions(items []any, requested QuestionType) []Question {
	out := make([]Question, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if q, ok := mapQuestion(obj, requested); ok {
			out = append(out, q)
		}
	}
	return out
}

func mapQuestion(obj map[string]any, requested QuestionType) (Question, bool) {
	text := firstString(obj, questionKeys)
	if text == "" {
		return Question{}, false
	}

	qt := requested
	if t := firstString(obj, typeKeys); t != "" {
		qt = MapQuizType(t)
	}

	var options []string
	if qt == MultipleChoice || qt == TrueFalse {
		options = coerceOptions(firstValue(obj, optionKeys))
	}

	q := Question{
		Question:    text,
		Options:     options,
		Answer:      normalizeAnswer(firstValue(obj, answerKeys), qt, options),
		Explanation: firstString(obj, explanationKeys),
		Type:        qt,
	}
	return finalize(q)
}

// finalize applies the validity rules shared by the JSON and text paths.
// MCQs without options are dropped. True/false questions always end up
// with canonical options, and an unrecognized answer is replaced by "True".
func finalize(q Question) (Question, bool) {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return Question{}, false
	}
	if q.Explanation == "" {
		q.Explanation = NoExplanation
	}

	switch q.Type {
	case MultipleChoice:
		if len(q.Options) == 0 {
			return Question{}, false
		}
	case TrueFalse:
		if q.Answer != answerTrue && q.Answer != answerFalse {
			q.Answer = answerTrue
		}
		q.Options = trueFalseOptions()
	case Open:
		q.Options = nil
		if q.Answer == "" {
			q.Answer = OpenPlaceholder
		}
	}
	return q, true
}

// firstValue returns the first present, non-null value among keys.
func firstValue(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString returns the first non-empty trimmed string among keys.
func firstString(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if s := stringField(obj, k); s != "" {
			return s
		}
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
