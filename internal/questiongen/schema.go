package questiongen

import (
	"ravencode_backend/internal/llm"
	"ravencode_backend/internal/quiz"
)

// QuestionSetSchema is the structured output requested from the model. The
// correct answer is always an array of strings so one schema fits every
// question type; it is converted to the typed answer after validation.
var QuestionSetSchema = &llm.Schema{
	Name:        "practice-question-set",
	Description: "A set of practice questions about one programming lesson",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": quiz.QuestionsPerSession,
				"maxItems": quiz.QuestionsPerSession,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{string(quiz.SingleChoice), string(quiz.Boolean), string(quiz.Reorder)},
							"description": "single_choice picks one option, boolean is true/false, reorder puts options in order",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Choices for single_choice, shuffled items for reorder, empty for boolean",
						},
						"correct_answer": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "single_choice: [option]; boolean: [\"true\"] or [\"false\"]; reorder: options in correct order",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining the answer",
						},
					},
					"required":             []any{"type", "text", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

type questionSetOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer []string `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}
