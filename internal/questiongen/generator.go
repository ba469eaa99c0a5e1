// Package questiongen turns lesson content into a practice question set
// using an llm.Provider.
package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ravencode_backend/internal/llm"
	"ravencode_backend/internal/quiz"
	"ravencode_backend/internal/util"
)

type Config struct {
	MaxTokens       int
	Temperature     float64
	MaxContentChars int
	// Timeout bounds one Generate call including retries; zero means no limit.
	Timeout         time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:       4096,
		Temperature:     0.7,
		MaxContentChars: 24000,
		Timeout:         60 * time.Second,
	}
}

// LLMGenerator produces question sets through an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate returns exactly quiz.QuestionsPerSession questions with ids q1..qN.
// Every failure, including provider errors and unusable output, wraps
// util.ErrGenerationFailure.
func (g *LLMGenerator) Generate(ctx context.Context, courseTitle, lessonTitle, content string) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, "practice-questions")
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(courseTitle, lessonTitle, content, g.config.MaxContentChars)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailure, err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", util.ErrGenerationFailure, err)
	}

	questions, err := convert(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailure, err)
	}
	return questions, nil
}
