package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FencedQuizObject(t *testing.T) {
	raw := "Here is your quiz:\n```json\n{\"quiz\":{\"title\":\"T\",\"questions\":[{\"question\":\"Q1\",\"options\":[\"A\",\"B\"],\"answer\":0,\"explanation\":\"E\"}]}}\n```"

	q, src, err := NormalizeWithSource(raw, MultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, SourceJSON, src)
	assert.Equal(t, "T", q.Title)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, Question{
		Question:    "Q1",
		Options:     []string{"A", "B"},
		Answer:      "A",
		Explanation: "E",
		Type:        MultipleChoice,
	}, q.Questions[0])
}

func TestNormalize_FencedMatchesUnwrapped(t *testing.T) {
	payload := `{"title":"Capitals","questions":[
		{"question":"Capital of France?","options":["Paris","Rome"],"answer":"Paris"},
		{"question":"Capital of Italy?","options":["Paris","Rome"],"answer":1}
	]}`

	bare, err := Normalize(payload, MultipleChoice)
	require.NoError(t, err)
	fenced, err := Normalize("```json\n"+payload+"\n```", MultipleChoice)
	require.NoError(t, err)
	untagged, err := Normalize("Sure!\n```\n"+payload+"\n```\nGood luck.", MultipleChoice)
	require.NoError(t, err)

	assert.Equal(t, bare, fenced)
	assert.Equal(t, bare, untagged)
}

func TestNormalize_PreservesCountAndOrder(t *testing.T) {
	payload := `[
		{"question":"one","type":"open","answer":"1"},
		{"question":"two","type":"true_false","answer":"f"},
		{"question":"three","options":["x","y","z"],"answer":"C"}
	]`
	q, err := Normalize(payload, MultipleChoice)
	require.NoError(t, err)
	require.Len(t, q.Questions, 3)
	assert.Equal(t, DefaultTitle, q.Title)

	assert.Equal(t, "one", q.Questions[0].Question)
	assert.Equal(t, Open, q.Questions[0].Type)
	assert.Equal(t, "1", q.Questions[0].Answer)

	assert.Equal(t, "two", q.Questions[1].Question)
	assert.Equal(t, TrueFalse, q.Questions[1].Type)
	assert.Equal(t, "False", q.Questions[1].Answer)

	assert.Equal(t, "three", q.Questions[2].Question)
	assert.Equal(t, "z", q.Questions[2].Answer)
}

func TestNormalize_NumericIndexAnswer(t *testing.T) {
	for idx, want := range []string{"red", "green", "blue"} {
		payload := `{"questions":[{"question":"Pick","options":["red","green","blue"],"answer":` + string(rune('0'+idx)) + `}]}`
		q, err := Normalize(payload, MultipleChoice)
		require.NoError(t, err)
		assert.Equal(t, want, q.Questions[0].Answer)
	}
}

func TestNormalize_TrueFalseIndexUsesOptionText(t *testing.T) {
	payload := `[{"question":"Water is dry.","options":["true","false"],"answer":1}]`
	q, err := Normalize(payload, TrueFalse)
	require.NoError(t, err)
	assert.Equal(t, "False", q.Questions[0].Answer)
	assert.Equal(t, []string{"True", "False"}, q.Questions[0].Options)
}

func TestNormalize_TrueFalseFailSafe(t *testing.T) {
	payload := `{"questions":[{"question":"The sky is blue.","type":"True/False","answer":"maybe"}]}`
	q, err := Normalize(payload, MultipleChoice)
	require.NoError(t, err)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, Question{
		Question:    "The sky is blue.",
		Options:     []string{"True", "False"},
		Answer:      "True",
		Explanation: NoExplanation,
		Type:        TrueFalse,
	}, q.Questions[0])
}

func TestNormalize_TrueFalseAnswers(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{`"true"`, "True"},
		{`"F"`, "False"},
		{`" false "`, "False"},
		{`false`, "False"},
		{`true`, "True"},
		{`1`, "False"},
		{`""`, "True"},
		{`["false"]`, "False"},
		{`{"text":"false"}`, "False"},
	}
	for _, tc := range tests {
		payload := `[{"question":"Q","options":["True","False"],"answer":` + tc.answer + `}]`
		q, err := Normalize(payload, TrueFalse)
		require.NoError(t, err, tc.answer)
		assert.Equal(t, tc.want, q.Questions[0].Answer, "answer %s", tc.answer)
		assert.Equal(t, []string{"True", "False"}, q.Questions[0].Options)
	}
}

func TestNormalize_Aliases(t *testing.T) {
	payload := `{"data":{"questions":[
		{"prompt":"P","choices":{"b":"Two","a":"One"},"correctAnswer":"b","rationale":"R"}
	]}}`
	q, err := Normalize(payload, MultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, q.Title)
	assert.Equal(t, Question{
		Question:    "P",
		Options:     []string{"One", "Two"},
		Answer:      "Two",
		Explanation: "R",
		Type:        MultipleChoice,
	}, q.Questions[0])
}

func TestNormalize_ShapeStrategies(t *testing.T) {
	item := `{"stem":"S","answers":["a","b"],"answer":"a"}`
	tests := []struct {
		name      string
		payload   string
		wantTitle string
	}{
		{"titled questions", `{"title":"Root","questions":[` + item + `]}`, "Root"},
		{"quiz object", `{"quiz":{"title":"Nested","questions":[` + item + `]}}`, "Nested"},
		{"quiz array", `{"title":"Top","quiz":[` + item + `]}`, "Top"},
		{"data quiz questions", `{"data":{"quiz":{"title":"Deep","questions":[` + item + `]}}}`, "Deep"},
		{"data questions", `{"data":{"questions":[` + item + `]}}`, DefaultTitle},
		{"data array", `{"data":[` + item + `]}`, DefaultTitle},
		{"top level array", `[` + item + `]`, DefaultTitle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Normalize(tc.payload, MultipleChoice)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTitle, q.Title)
			require.Len(t, q.Questions, 1)
			assert.Equal(t, "S", q.Questions[0].Question)
			assert.Equal(t, []string{"a", "b"}, q.Questions[0].Options)
			assert.Equal(t, "a", q.Questions[0].Answer)
		})
	}
}

func TestNormalize_AnswerShapes(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"letter", `"C"`, "Berlin"},
		{"lower letter", `"b"`, "Rome"},
		{"lettered text", `"B) Rome"`, "Rome"},
		{"case-insensitive text", `"berlin"`, "Berlin"},
		{"list", `["Rome","Paris"]`, "Rome"},
		{"object", `{"text":" Paris "}`, "Paris"},
		{"index", `2`, "Berlin"},
		{"missing", `null`, "Paris"},
		{"empty", `"  "`, "Paris"},
		{"unmatched", `"Madrid"`, "Paris"},
		{"out of range index", `7`, "Paris"},
		{"whole float index", `1.0`, "Rome"},
		{"fractional index", `1.5`, "Paris"},
		{"numeric string", `"7"`, "Paris"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := `[{"question":"Capital?","options":["Paris","Rome","Berlin"],"answer":` + tc.answer + `}]`
			q, err := Normalize(payload, MultipleChoice)
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.Questions[0].Answer)
		})
	}
}

func TestNormalize_ShapeWithoutValidQuestionsFallsThrough(t *testing.T) {
	payload := `{"questions":[{"foo":1}],"quiz":[{"question":"Q?","options":["a","b"],"answer":"b"}]}`
	q, err := Normalize(payload, MultipleChoice)
	require.NoError(t, err)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, "Q?", q.Questions[0].Question)
	assert.Equal(t, "b", q.Questions[0].Answer)
}

func TestNormalize_PrefersJSONTaggedFence(t *testing.T) {
	raw := "Notes:\n```text\nsummary of the chapter\n```\nQuiz:\n```json\n" +
		`{"title":"T","questions":[{"question":"Q?","options":["a","b"],"answer":"a"}]}` +
		"\n```"
	q, src, err := NormalizeWithSource(raw, MultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, SourceJSON, src)
	assert.Equal(t, "T", q.Title)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, "a", q.Questions[0].Answer)
}

func TestNormalize_OtherLanguageFence(t *testing.T) {
	raw := "```javascript\n" + `[{"question":"Q?","options":["a","b"],"answer":"B"}]` + "\n```"
	q, src, err := NormalizeWithSource(raw, MultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, SourceJSON, src)
	assert.Equal(t, "b", q.Questions[0].Answer)
}

func TestJSONCandidates_Order(t *testing.T) {
	raw := "```\n{\"a\":1}\n```\n```yaml\nb: 2\n```\n```json\n[1]\n```"
	assert.Equal(t, []string{"[1]", `{"a":1}`, "b: 2"}, jsonCandidates(raw))
	assert.Equal(t, []string{`{"a":1}`}, jsonCandidates(`  {"a":1} `))
	assert.Empty(t, jsonCandidates("no json here"))
}

func TestNormalize_DropsInvalidQuestions(t *testing.T) {
	payload := `[
		{"question":"","options":["a"],"answer":"a"},
		{"question":"No options","answer":"a"},
		{"question":"Kept","options":["a", "  ", 3],"answer":"3"},
		"not an object"
	]`
	q, err := Normalize(payload, MultipleChoice)
	require.NoError(t, err)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, "Kept", q.Questions[0].Question)
	assert.Equal(t, []string{"a", "3"}, q.Questions[0].Options)
	assert.Equal(t, "3", q.Questions[0].Answer)
}

func TestNormalize_OpenQuestionPlaceholder(t *testing.T) {
	q, err := Normalize(`[{"text":"Discuss.","options":["x"]}]`, Open)
	require.NoError(t, err)
	assert.Equal(t, Question{
		Question:    "Discuss.",
		Answer:      OpenPlaceholder,
		Explanation: NoExplanation,
		Type:        Open,
	}, q.Questions[0])
}

func TestNormalize_Unparseable(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n ",
		"Sorry, I cannot help with that.",
		"{not json",
		`{"foo": 1}`,
		`{"questions": []}`,
		"```json\n[]\n```",
	}
	for _, in := range inputs {
		q, err := Normalize(in, MultipleChoice)
		assert.ErrorIs(t, err, ErrUnparseable, "input %q", in)
		assert.Nil(t, q)
	}
}

func TestNormalize_InvalidJSONFallsBackToText(t *testing.T) {
	raw := "```json\n{\"questions\": [oops\n```\n\nQ1: What is 2+2?\nA) 3\nB) 4\nAnswer: B"
	q, src, err := NormalizeWithSource(raw, MultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, SourceText, src)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, "4", q.Questions[0].Answer)
}
