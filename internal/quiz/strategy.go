package quiz

import "strings"

// shapeStrategy locates the question list inside a decoded payload. It
// returns ok=false when the payload does not have its shape.
type shapeStrategy struct {
	name    string
	resolve func(payload any) (title string, items []any, ok bool)
}

// shapeStrategies is tried in order; the first that yields questions wins.
var shapeStrategies = []shapeStrategy{
	{"titled-questions", titledQuestions},
	{"quiz-object", quizObject},
	{"quiz-array", quizArray},
	{"data-quiz-questions", dataQuizQuestions},
	{"data-questions", dataQuestions},
	{"data-array", dataArray},
	{"top-level-array", topLevelArray},
}

// resolveShape runs the strategy chain. A strategy wins when at least one
// of its items maps to a valid question; otherwise the next one is tried.
// The title falls back to a root level title and then to DefaultTitle.
func resolveShape(payload any, requested QuestionType) (title string, questions []Question, strategy string) {
	for _, s := range shapeStrategies {
		t, items, ok := s.resolve(payload)
		if !ok || len(items) == 0 {
			continue
		}
		qs := mapQuestions(items, requested)
		if len(qs) == 0 {
			continue
		}
		if t == "" {
			t = stringField(asObject(payload), "title")
		}
		if t == "" {
			t = DefaultTitle
		}
		return t, qs, s.name
	}
	return "", nil, ""
}

func titledQuestions(payload any) (string, []any, bool) {
	root := asObject(payload)
	qs, ok := root["questions"].([]any)
	if !ok {
		return "", nil, false
	}
	return stringField(root, "title"), qs, true
}

func quizObject(payload any) (string, []any, bool) {
	quiz := asObject(asObject(payload)["quiz"])
	qs, ok := quiz["questions"].([]any)
	if !ok {
		return "", nil, false
	}
	return stringField(quiz, "title"), qs, true
}

func quizArray(payload any) (string, []any, bool) {
	qs, ok := asObject(payload)["quiz"].([]any)
	return "", qs, ok
}

func dataQuizQuestions(payload any) (string, []any, bool) {
	quiz := asObject(asObject(asObject(payload)["data"])["quiz"])
	qs, ok := quiz["questions"].([]any)
	if !ok {
		return "", nil, false
	}
	return stringField(quiz, "title"), qs, true
}

func dataQuestions(payload any) (string, []any, bool) {
	data := asObject(asObject(payload)["data"])
	qs, ok := data["questions"].([]any)
	if !ok {
		return "", nil, false
	}
	return stringField(data, "title"), qs, true
}

func dataArray(payload any) (string, []any, bool) {
	qs, ok := asObject(payload)["data"].([]any)
	return "", qs, ok
}

func topLevelArray(payload any) (string, []any, bool) {
	qs, ok := payload.([]any)
	return "", qs, ok
}

// asObject returns v as a JSON object, or nil. Indexing a nil map is safe,
// which keeps the strategies free of nested type checks.
func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
