package questiongen

import (
	"encoding/json"
	"strings"

	"ravencode_backend/internal/llm"
)

// DemoResponder is a MockProvider fallback that answers with a fixed,
// schema-valid question set about the requested lesson. It lets the server
// run with ai.provider=mock.
func DemoResponder(req llm.Request) (json.RawMessage, error) {
	lesson := "this lesson"
	if len(req.Messages) > 0 {
		for _, line := range strings.Split(req.Messages[0].Content, "\n") {
			if title, ok := strings.CutPrefix(line, "Lesson: "); ok && title != "" {
				lesson = title
				break
			}
		}
	}

	set := questionSetOutput{Questions: []questionOutput{
		{
			Type:          "single_choice",
			Text:          "Which statement best describes " + lesson + "?",
			Options:       []string{"It was covered in the lesson", "It is unrelated", "It is deprecated"},
			CorrectAnswer: []string{"It was covered in the lesson"},
			Explanation:   "The lesson introduces " + lesson + ".",
		},
		{
			Type:          "boolean",
			Text:          "Reading the lesson before practicing helps.",
			Options:       []string{},
			CorrectAnswer: []string{"true"},
			Explanation:   "Practice questions are drawn from the lesson.",
		},
		{
			Type:          "reorder",
			Text:          "Put the learning steps in order.",
			Options:       []string{"Practice", "Read", "Review"},
			CorrectAnswer: []string{"Read", "Practice", "Review"},
			Explanation:   "Read first, then practice, then review mistakes.",
		},
		{
			Type:          "boolean",
			Text:          "A session needs 3 correct answers to pass.",
			Options:       []string{},
			CorrectAnswer: []string{"true"},
			Explanation:   "Three of five is the passing score.",
		},
		{
			Type:          "single_choice",
			Text:          "How many questions are in a practice session?",
			Options:       []string{"3", "5", "10"},
			CorrectAnswer: []string{"5"},
			Explanation:   "Every session has five questions.",
		},
	}}
	return json.Marshal(set)
}
