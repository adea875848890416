package quiz

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blankLine      = regexp.MustCompile(`\n[ \t]*\n`)
	fenceLine      = regexp.MustCompile("(?m)^[ \t]*```.*$")
	questionMarker = regexp.MustCompile(`^(?:\*\*)?(?:[Qq](?:uestion)?\s*\d+\s*[:.)]|\d+\s*[.)])(?:\*\*)?\s*`)
	optionLine     = regexp.MustCompile(`^\(?([A-Za-z]|\d{1,2})\s*[.)\-]\s+(.+)$`)
	answerLine     = regexp.MustCompile(`(?i)^(?:\*\*)?(?:correct\s+answer|answer)(?:\*\*)?\s*[:\-]\s*(?:\*\*)?(.*)$`)
	explainLine    = regexp.MustCompile(`(?i)^(?:\*\*)?(?:explanation|rationale)(?:\*\*)?\s*[:\-]\s*(?:\*\*)?(.*)$`)
	numberedAnswer = regexp.MustCompile(`^\(?(\d{1,2})\s*(?:[.):\-]|$)`)
)

// parseBlocks recovers questions from plain text laid out as blank-line
// separated blocks:
//
//	Q1: What is the capital of France?
//	A) Paris
//	B) Rome
//	Answer: A
//	Explanation: Paris is the capital.
//
// A block only counts when it looks like a question: it carries a question
// marker, option lines, or an answer line. Free prose yields nothing.
func parseBlocks(raw string, requested QuestionType) []Question {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = fenceLine.ReplaceAllString(text, "")

	var out []Question
	for _, block := range blankLine.Split(text, -1) {
		if q, ok := parseBlock(block, requested); ok {
			out = append(out, q)
		}
	}
	return out
}

func parseBlock(block string, requested QuestionType) (Question, bool) {
	lines := nonEmptyLines(block)
	if len(lines) == 0 {
		return Question{}, false
	}

	first := lines[0]
	marked := questionMarker.MatchString(first)
	text := strings.TrimSpace(questionMarker.ReplaceAllString(first, ""))
	if text == "" {
		return Question{}, false
	}

	var (
		options     []string
		answer      string
		explanation string
		hasAnswer   bool
		numbered    = true
	)
	for _, line := range lines[1:] {
		switch {
		case answerLine.MatchString(line):
			answer = strings.TrimSpace(answerLine.FindStringSubmatch(line)[1])
			hasAnswer = true
		case explainLine.MatchString(line):
			explanation = strings.TrimSpace(explainLine.FindStringSubmatch(line)[1])
		case optionLine.MatchString(line):
			m := optionLine.FindStringSubmatch(line)
			options = append(options, strings.TrimSpace(m[2]))
			if _, err := strconv.Atoi(m[1]); err != nil {
				numbered = false
			}
		case len(options) == 0 && !hasAnswer && explanation == "":
			text += " " + line
		case explanation != "":
			explanation += " " + line
		}
	}

	if !marked && len(options) == 0 && !hasAnswer {
		return Question{}, false
	}

	if numbered && len(options) > 0 {
		answer = resolveNumberedAnswer(answer, options)
	}

	qt := requested
	switch {
	case qt == MultipleChoice && len(options) == 0:
		qt = Open
	case qt == TrueFalse && len(options) == 0:
		options = trueFalseOptions()
	case qt == Open:
		options = nil
	}

	return finalize(Question{
		Question:    text,
		Options:     options,
		Answer:      normalizeAnswer(answer, qt, options),
		Explanation: explanation,
		Type:        qt,
	})
}

// resolveNumberedAnswer maps "2" or "2) Rome" to the second option when the
// options were labeled 1, 2, 3. An answer that already names an option is
// left alone.
func resolveNumberedAnswer(answer string, options []string) string {
	if _, ok := findOption(answer, options); ok {
		return answer
	}
	m := numberedAnswer.FindStringSubmatch(strings.TrimSpace(answer))
	if m == nil {
		return answer
	}
	n, _ := strconv.Atoi(m[1])
	if n < 1 || n > len(options) {
		return answer
	}
	return options[n-1]
}

func nonEmptyLines(block string) []string {
	var out []string
	for _, l := range strings.Split(block, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
