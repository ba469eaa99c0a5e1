package quiz

// QuestionResult is the per-question breakdown of a grading.
type QuestionResult struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
	Submitted  Answer `json:"submitted"`
	Expected   Answer `json:"expected"`
}

type GradeResult struct {
	Score    int              `json:"score"`
	MaxScore int              `json:"maxScore"`
	Approved bool             `json:"approved"`
	Results  []QuestionResult `json:"results"`
}

// Grade scores answers against the questions' correct answers. A question
// with no submitted answer counts as incorrect.
func Grade(questions []Question, answers map[string]Answer) GradeResult {
	res := GradeResult{
		MaxScore: len(questions),
		Results:  make([]QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		submitted, ok := answers[q.ID]
		correct := ok && q.CorrectAnswer.Equal(submitted)
		if correct {
			res.Score++
		}
		res.Results = append(res.Results, QuestionResult{
			QuestionID: q.ID,
			Correct:    correct,
			Submitted:  submitted,
			Expected:   q.CorrectAnswer,
		})
	}

	res.Approved = res.Score >= PassingScore
	return res
}
