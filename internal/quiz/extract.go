package quiz

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// fencedBlock matches a triple-backtick block. Group 1 is the language tag
// on the opening fence, group 2 the body.
var fencedBlock = regexp.MustCompile("(?s)```[ \\t]*([A-Za-z0-9_+.-]*)[ \\t]*\\r?\\n?(.*?)```")

// jsonCandidates returns the texts that should be parsed as JSON, best
// first: json-tagged fences, untagged fences, fences with another tag, and
// finally the whole completion when it is itself a JSON value. Arbitrary
// substrings are never tried.
func jsonCandidates(raw string) []string {
	var tagged, untagged, other []string
	for _, m := range fencedBlock.FindAllStringSubmatch(raw, -1) {
		body := strings.TrimSpace(m[2])
		if body == "" {
			continue
		}
		switch lang := strings.ToLower(m[1]); lang {
		case "json":
			tagged = append(tagged, body)
		case "":
			untagged = append(untagged, body)
		default:
			other = append(other, body)
		}
	}
	out := append(append(tagged, untagged...), other...)

	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 {
		first, last := trimmed[0], trimmed[len(trimmed)-1]
		if (first == '{' && last == '}') || (first == '[' && last == ']') {
			out = append(out, trimmed)
		}
	}
	return out
}

// decodeJSON parses a candidate keeping numbers as json.Number so that
// integer indexes survive intact.
func decodeJSON(candidate string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
