package generate

import "github.com/abhisek/quizdoc/internal/llm"

// QuizSchema is the structured output shape requested from providers.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "A titled quiz generated from source material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A short title describing the quiz topic",
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt",
						},
						"type": map[string]any{
							"type": "string",
							"enum": []any{"mcq", "true_false", "open"},
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Answer options. Four for mcq, [\"True\",\"False\"] for true_false, empty for open.",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer. For mcq the exact text of the correct option.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct",
						},
					},
					"required":             []any{"question", "type", "options", "answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "questions"},
		"additionalProperties": false,
	},
}
