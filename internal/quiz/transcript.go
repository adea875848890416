package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Transcript renders q as plain text for copying or saving. The projection
// is lossy and not meant to be parsed back.
func Transcript(q *Quiz) string {
	if q == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(q.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len([]rune(q.Title))))
	b.WriteString("\n")

	for i, question := range q.Questions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, question.Question)
		for j, opt := range question.Options {
			fmt.Fprintf(&b, "   %s) %s\n", OptionLabel(j), opt)
		}
		fmt.Fprintf(&b, "   Answer: %s\n", question.Answer)
		fmt.Fprintf(&b, "   Explanation: %s\n", question.Explanation)
	}
	return b.String()
}

// MarshalIndented returns q as indented JSON.
func MarshalIndented(q *Quiz) ([]byte, error) {
	return json.MarshalIndent(q, "", "  ")
}

// OptionLabel returns the letter label for a zero-based option index.
func OptionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%d", i+1)
}
