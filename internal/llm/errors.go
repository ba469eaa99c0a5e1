package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit 对应 HTTP 429
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
}
func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse 输出不是合法 JSON 或不符合 schema
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return "invalid model output: " + e.Err.Error() }
func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "model provider unavailable"
	}
	return "model provider unavailable: " + e.Err.Error()
}
func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded 输出在 MaxTokens 处被截断
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "model output truncated at max tokens" }
