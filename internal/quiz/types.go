package quiz

// QuestionType is the kind of a quiz question. Its string value is the wire
// tag exchanged with the generation service.
type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	TrueFalse      QuestionType = "true_false"
	Open           QuestionType = "open"
)

// Label returns a human-readable name for the question type.
func (t QuestionType) Label() string {
	switch t {
	case TrueFalse:
		return "True/False"
	case Open:
		return "Open"
	default:
		return "Multiple choice"
	}
}

const (
	// DefaultTitle is used when the completion carries no usable title.
	DefaultTitle = "Generated Quiz"

	// NoExplanation is the placeholder for questions without an explanation.
	NoExplanation = "No explanation provided."

	// OpenPlaceholder is the canonical answer of an open question whose
	// answer could not be recovered.
	OpenPlaceholder = "Answers may vary."

	answerTrue  = "True"
	answerFalse = "False"
)

// Question is a single normalized quiz question.
type Question struct {
	Question    string       `json:"question"`
	Options     []string     `json:"options,omitempty"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
	Type        QuestionType `json:"type"`
}

// Quiz is a titled, non-empty, ordered list of questions.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Answers maps a zero-based question index to the user's raw answer.
type Answers map[int]string

func trueFalseOptions() []string {
	return []string{answerTrue, answerFalse}
}
