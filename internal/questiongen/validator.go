package questiongen

import (
	"fmt"
	"slices"
	"strings"

	"ravencode_backend/internal/quiz"
)

// ValidationError names the question that failed and why.
type ValidationError struct {
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "question set: " + e.Message
	}
	return fmt.Sprintf("question %d: %s", e.Index+1, e.Message)
}

// convert checks the model output and builds typed questions.
func convert(raw questionSetOutput) ([]quiz.Question, error) {
	if len(raw.Questions) != quiz.QuestionsPerSession {
		return nil, &ValidationError{Index: -1, Message: fmt.Sprintf("want %d questions, got %d", quiz.QuestionsPerSession, len(raw.Questions))}
	}

	types := make(map[quiz.QuestionType]bool)
	out := make([]quiz.Question, 0, len(raw.Questions))
	for i, q := range raw.Questions {
		question, err := convertOne(i, q)
		if err != nil {
			return nil, err
		}
		types[question.Type] = true
		out = append(out, question)
	}

	if len(types) < 2 {
		return nil, &ValidationError{Index: -1, Message: "question types are not mixed"}
	}
	return out, nil
}

func convertOne(i int, q questionOutput) (quiz.Question, error) {
	qt := quiz.QuestionType(q.Type)
	if !qt.Valid() {
		return quiz.Question{}, &ValidationError{Index: i, Message: fmt.Sprintf("unknown type %q", q.Type)}
	}
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return quiz.Question{}, &ValidationError{Index: i, Message: "empty text"}
	}

	question := quiz.Question{
		ID:          fmt.Sprintf("q%d", i+1),
		Type:        qt,
		Text:        text,
		Explanation: strings.TrimSpace(q.Explanation),
	}

	switch qt {
	case quiz.SingleChoice:
		if len(q.Options) < 2 {
			return quiz.Question{}, &ValidationError{Index: i, Message: "single_choice needs at least 2 options"}
		}
		if len(q.CorrectAnswer) != 1 || !slices.Contains(q.Options, q.CorrectAnswer[0]) {
			return quiz.Question{}, &ValidationError{Index: i, Message: "correct answer is not one of the options"}
		}
		question.Options = q.Options
		question.CorrectAnswer = quiz.Text(q.CorrectAnswer[0])

	case quiz.Boolean:
		if len(q.CorrectAnswer) != 1 {
			return quiz.Question{}, &ValidationError{Index: i, Message: "boolean needs a single answer"}
		}
		switch strings.ToLower(strings.TrimSpace(q.CorrectAnswer[0])) {
		case "true":
			question.CorrectAnswer = quiz.Bool(true)
		case "false":
			question.CorrectAnswer = quiz.Bool(false)
		default:
			return quiz.Question{}, &ValidationError{Index: i, Message: fmt.Sprintf("boolean answer %q", q.CorrectAnswer[0])}
		}

	case quiz.Reorder:
		if len(q.Options) < 2 {
			return quiz.Question{}, &ValidationError{Index: i, Message: "reorder needs at least 2 items"}
		}
		if !isPermutation(q.Options, q.CorrectAnswer) {
			return quiz.Question{}, &ValidationError{Index: i, Message: "correct order is not a permutation of the options"}
		}
		question.Options = q.Options
		question.CorrectAnswer = quiz.Sequence(q.CorrectAnswer...)
	}

	return question, nil
}

func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
