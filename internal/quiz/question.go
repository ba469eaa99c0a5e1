// Package quiz defines practice questions and grades submissions locally.
package quiz

const (
	// QuestionsPerSession is the fixed size of a practice session.
	QuestionsPerSession = 5

	// PassingScore is the minimum number of correct answers for approval.
	PassingScore = 3
)

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	Boolean      QuestionType = "boolean"
	Reorder      QuestionType = "reorder"
)

func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, Boolean, Reorder:
		return true
	}
	return false
}

// Question is one generated practice question. The full set, including the
// correct answers, travels to the client and back on submit.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
}
