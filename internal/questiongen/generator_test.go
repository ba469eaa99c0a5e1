package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"ravencode_backend/internal/llm"
	"ravencode_backend/internal/quiz"
	"ravencode_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSet() questionSetOutput {
	return questionSetOutput{Questions: []questionOutput{
		{Type: "single_choice", Text: "What does fmt.Println print?", Options: []string{"a line", "nothing"}, CorrectAnswer: []string{"a line"}},
		{Type: "boolean", Text: "Go has generics.", Options: []string{}, CorrectAnswer: []string{"true"}},
		{Type: "boolean", Text: "Go has classes.", Options: []string{}, CorrectAnswer: []string{"False"}},
		{Type: "reorder", Text: "Order the lines.", Options: []string{"}", "func main() {", "fmt.Println(1)"}, CorrectAnswer: []string{"func main() {", "fmt.Println(1)", "}"}},
		{Type: "single_choice", Text: "Keyword for loops?", Options: []string{"for", "while"}, CorrectAnswer: []string{"for"}},
	}}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestGenerate_Valid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, validSet())})
	g := New(mock, DefaultConfig())

	qs, err := g.Generate(context.Background(), "Go Basics", "Hello World", "## Intro\n\nbody")
	require.NoError(t, err)
	require.Len(t, qs, quiz.QuestionsPerSession)

	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, "q5", qs[4].ID)
	assert.True(t, qs[0].CorrectAnswer.Equal(quiz.Text("a line")))
	assert.True(t, qs[1].CorrectAnswer.Equal(quiz.Bool(true)))
	assert.True(t, qs[2].CorrectAnswer.Equal(quiz.Bool(false)))
	assert.True(t, qs[3].CorrectAnswer.Equal(quiz.Sequence("func main() {", "fmt.Println(1)", "}")))

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, QuestionSetSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "Course: Go Basics")
	assert.Contains(t, call.Messages[0].Content, "Lesson: Hello World")
	assert.Contains(t, call.Messages[0].Content, "## Intro")
}

func TestGenerate_RejectsUnusableOutput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*questionSetOutput)
	}{
		{"too few", func(s *questionSetOutput) { s.Questions = s.Questions[:4] }},
		{"unknown type", func(s *questionSetOutput) { s.Questions[0].Type = "essay" }},
		{"empty text", func(s *questionSetOutput) { s.Questions[0].Text = "  " }},
		{"answer not an option", func(s *questionSetOutput) { s.Questions[0].CorrectAnswer = []string{"maybe"} }},
		{"bad boolean", func(s *questionSetOutput) { s.Questions[1].CorrectAnswer = []string{"yes"} }},
		{"reorder not permutation", func(s *questionSetOutput) { s.Questions[3].CorrectAnswer = []string{"}", "}"} }},
		{"single type", func(s *questionSetOutput) {
			for i := range s.Questions {
				s.Questions[i] = questionOutput{Type: "boolean", Text: "t", CorrectAnswer: []string{"true"}}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := validSet()
			tt.mutate(&set)
			mock := llm.NewMockProvider(llm.MockResponse{Content: mustJSON(t, set)})

			_, err := New(mock, DefaultConfig()).Generate(context.Background(), "c", "l", "x")
			assert.ErrorIs(t, err, util.ErrGenerationFailure)
		})
	}
}

func TestGenerate_ProviderErrorIsGenerationFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})

	_, err := New(mock, DefaultConfig()).Generate(context.Background(), "c", "l", "x")
	assert.ErrorIs(t, err, util.ErrGenerationFailure)
	assert.Contains(t, err.Error(), "down")
}

func TestDemoResponder(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = DemoResponder

	qs, err := New(mock, DefaultConfig()).Generate(context.Background(), "Go", "Variables", "content")
	require.NoError(t, err)
	assert.Len(t, qs, quiz.QuestionsPerSession)
	assert.Contains(t, qs[0].Text, "Variables")
}

func TestTruncateContent(t *testing.T) {
	page := strings.Repeat("a", 10)
	content := page + pageBreak + page + pageBreak + page

	assert.Equal(t, content, truncateContent(content, 0))
	assert.Equal(t, content, truncateContent(content, len(content)))
	assert.Equal(t, page+pageBreak+page, truncateContent(content, len(content)-3))
	assert.Equal(t, "aaaaa", truncateContent(page, 5))

	// never splits a multi-byte rune
	assert.Equal(t, "é", truncateContent("éé", 3))
}
