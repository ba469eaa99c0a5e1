package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []Question {
	return []Question{
		{ID: "q1", Type: SingleChoice, Text: "Which keyword declares a block-scoped variable?", Options: []string{"var", "let", "def"}, CorrectAnswer: Text("let")},
		{ID: "q2", Type: Boolean, Text: "const bindings can be reassigned.", CorrectAnswer: Bool(false)},
		{ID: "q3", Type: Reorder, Text: "Order the statements.", Options: []string{"x = 10;", "let x;"}, CorrectAnswer: Sequence("let x;", "x = 10;")},
		{ID: "q4", Type: SingleChoice, Text: "typeof null?", Options: []string{"object", "null"}, CorrectAnswer: Text("object")},
		{ID: "q5", Type: Boolean, Text: "NaN === NaN", CorrectAnswer: Bool(false)},
	}
}

func TestGrade_ApprovalThreshold(t *testing.T) {
	qs := sampleQuestions()
	all := map[string]Answer{
		"q1": Text("let"),
		"q2": Bool(false),
		"q3": Sequence("let x;", "x = 10;"),
		"q4": Text("object"),
		"q5": Bool(false),
	}
	wrong := map[string]Answer{
		"q1": Text("var"),
		"q2": Bool(true),
		"q3": Sequence("x = 10;", "let x;"),
		"q4": Text("null"),
		"q5": Bool(true),
	}
	order := []string{"q1", "q2", "q3", "q4", "q5"}

	for correct := 0; correct <= 5; correct++ {
		answers := map[string]Answer{}
		for i, id := range order {
			if i < correct {
				answers[id] = all[id]
			} else {
				answers[id] = wrong[id]
			}
		}

		got := Grade(qs, answers)
		assert.Equal(t, correct, got.Score)
		assert.Equal(t, 5, got.MaxScore)
		assert.Equal(t, correct >= 3, got.Approved, "score %d", correct)
		assert.Len(t, got.Results, 5)
	}
}

func TestGrade_SequenceOrderMatters(t *testing.T) {
	q := []Question{{ID: "r", Type: Reorder, CorrectAnswer: Sequence("let x;", "x = 10;")}}

	assert.Equal(t, 1, Grade(q, map[string]Answer{"r": Sequence("let x;", "x = 10;")}).Score)
	assert.Equal(t, 0, Grade(q, map[string]Answer{"r": Sequence("x = 10;", "let x;")}).Score)
	assert.Equal(t, 0, Grade(q, map[string]Answer{"r": Sequence("let x;")}).Score)
}

func TestGrade_StrictEquality(t *testing.T) {
	q := []Question{{ID: "b", Type: Boolean, CorrectAnswer: Bool(true)}}

	assert.Equal(t, 0, Grade(q, map[string]Answer{"b": Text("true")}).Score)
	assert.Equal(t, 1, Grade(q, map[string]Answer{"b": Bool(true)}).Score)
}

func TestGrade_MissingAnswerIsIncorrect(t *testing.T) {
	got := Grade(sampleQuestions(), map[string]Answer{"q1": Text("let")})
	assert.Equal(t, 1, got.Score)
	assert.False(t, got.Approved)
	assert.True(t, got.Results[1].Submitted.IsZero())
}

func TestGrade_Deterministic(t *testing.T) {
	answers := map[string]Answer{"q1": Text("let"), "q3": Sequence("let x;", "x = 10;"), "q5": Bool(false)}
	first := Grade(sampleQuestions(), answers)
	for range 10 {
		assert.Equal(t, first, Grade(sampleQuestions(), answers))
	}
}

func TestAnswer_JSON(t *testing.T) {
	var payload struct {
		Answers map[string]Answer `json:"answers"`
	}
	raw := `{"answers":{"a":"let","b":true,"c":["let x;","x = 10;"],"d":null}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, AnswerText, payload.Answers["a"].Kind())
	assert.Equal(t, AnswerBool, payload.Answers["b"].Kind())
	assert.True(t, payload.Answers["c"].Equal(Sequence("let x;", "x = 10;")))
	assert.True(t, payload.Answers["d"].IsZero())

	out, err := json.Marshal(payload.Answers["c"])
	require.NoError(t, err)
	assert.JSONEq(t, `["let x;","x = 10;"]`, string(out))

	var bad Answer
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &bad))
}
