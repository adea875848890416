package quiz

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// optionMarker matches a leading "B)" / "b." / "C:" label on an answer.
var optionMarker = regexp.MustCompile(`^([A-Za-z])\s*[.):\-]\s*`)

// normalizeAnswer converts a raw answer of unknown shape into the canonical
// answer for a question of type qt with the given options.
func normalizeAnswer(raw any, qt QuestionType, options []string) string {
	switch v := raw.(type) {
	case []any:
		if len(v) > 0 {
			return normalizeAnswer(v[0], qt, options)
		}
	case json.Number:
		if ans, ok := optionAtIndex(v.String(), options); ok {
			return normalizeAnswerString(ans, qt, options)
		}
		return normalizeAnswerString(v.String(), qt, options)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if ans, ok := optionAtIndex(s, options); ok {
			return normalizeAnswerString(ans, qt, options)
		}
		return normalizeAnswerString(s, qt, options)
	case int:
		return normalizeAnswer(json.Number(strconv.Itoa(v)), qt, options)
	case bool:
		if v {
			return normalizeAnswerString(answerTrue, qt, options)
		}
		return normalizeAnswerString(answerFalse, qt, options)
	case string:
		return normalizeAnswerString(v, qt, options)
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return normalizeAnswerString(text, qt, options)
		}
	}
	return fallbackAnswer(qt, options)
}

// optionAtIndex treats n as a zero-based index into options. Whole
// numbers written with a fraction, such as 1.0, are accepted.
func optionAtIndex(n string, options []string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f >= float64(len(options)) {
		return "", false
	}
	return options[int(f)], true
}

func normalizeAnswerString(s string, qt QuestionType, options []string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallbackAnswer(qt, options)
	}

	switch qt {
	case MultipleChoice:
		if opt, ok := matchOption(s, options); ok {
			return opt
		}
		return fallbackAnswer(qt, options)
	case TrueFalse:
		if opt, ok := matchOption(s, options); ok {
			s = opt
		}
		switch strings.ToLower(s)[0] {
		case 't':
			return answerTrue
		case 'f':
			return answerFalse
		}
	}
	return s
}

// matchOption resolves an MCQ answer against its options: exact text
// (case-insensitive, ignoring surrounding quotes and a trailing period), a
// bare letter, or a lettered answer such as "B) Paris".
func matchOption(s string, options []string) (string, bool) {
	if opt, ok := findOption(s, options); ok {
		return opt, true
	}
	if m := optionMarker.FindStringSubmatch(s); m != nil || len(s) == 1 {
		letter := s[:1]
		rest := s[1:]
		if m != nil {
			letter = m[1]
			rest = s[len(m[0]):]
		}
		if rest != "" {
			if opt, ok := findOption(rest, options); ok {
				return opt, true
			}
		}
		if idx := letterIndex(letter); idx >= 0 && idx < len(options) {
			return options[idx], true
		}
	}
	return "", false
}

func findOption(s string, options []string) (string, bool) {
	s = trimAnswer(s)
	for _, opt := range options {
		if strings.EqualFold(trimAnswer(opt), s) {
			return opt, true
		}
	}
	return "", false
}

func trimAnswer(s string) string {
	return strings.TrimRight(strings.Trim(strings.TrimSpace(s), `"'`), ".")
}

func letterIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	c := letter[0] | 0x20 // lower-case ASCII letters
	if c < 'a' || c > 'z' {
		return -1
	}
	return int(c - 'a')
}

// fallbackAnswer is used when no answer can be recovered.
func fallbackAnswer(qt QuestionType, options []string) string {
	switch {
	case qt == MultipleChoice && len(options) > 0:
		return options[0]
	case qt == Open:
		return OpenPlaceholder
	default:
		return ""
	}
}

// coerceOptions turns an array or object of arbitrary values into an
// ordered list of trimmed, non-empty option strings.
func coerceOptions(raw any) []string {
	var values []any
	switch v := raw.(type) {
	case []any:
		values = v
	case map[string]any:
		for _, k := range sortedKeys(v) {
			values = append(values, v[k])
		}
	default:
		return nil
	}

	out := make([]string, 0, len(values))
	for _, val := range values {
		var s string
		switch x := val.(type) {
		case string:
			s = x
		case json.Number:
			s = x.String()
		case float64:
			s = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			s = fmt.Sprint(x)
		case map[string]any:
			s, _ = x["text"].(string)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
