package llm

import (
	"context"
	"fmt"

	"ravencode_backend/internal/config"
)

// NewProvider 按配置创建 provider，外层依次包装重试和日志，mock 不包装
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case "openai":
		base, err = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "mock", "":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base), RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		InitialWait: cfg.RetryInitial,
		MaxWait:     cfg.RetryMaxWait,
		Multiplier:  cfg.RetryMultiplier,
	}), nil
}
