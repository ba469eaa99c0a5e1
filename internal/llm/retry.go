package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2}
}

type retryDecision int

const (
	giveUp retryDecision = iota
	retryAgain
	retryOnce // 格式错误的响应只重试一次
)

func classify(err error) retryDecision {
	var maxTok *ErrMaxTokensExceeded
	var invResp *ErrInvalidResponse
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok):
		return giveUp
	case errors.As(err, &invResp):
		return retryOnce
	default:
		return retryAgain
	}
}

// RetryProvider 对限流、服务不可用等临时错误做指数退避重试
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	cfg.Multiplier = max(cfg.Multiplier, 1)
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidBudget := 1
	var err error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(r.backoff(attempt-1, err))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if invalidBudget == 0 {
				return nil, err
			}
			invalidBudget--
		}
	}
	return nil, err
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for range attempt {
		wait *= r.config.Multiplier
	}
	// ±20% 抖动
	wait *= 0.8 + 0.4*rand.Float64()
	if limit := float64(r.config.MaxWait); limit > 0 && wait > limit {
		wait = limit
	}
	return time.Duration(wait)
}
