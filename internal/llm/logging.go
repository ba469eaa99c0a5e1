package llm

import (
	"context"
	"strconv"
	"time"

	"ravencode_backend/pkg/logger"
	"ravencode_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// LoggingProvider 记录每次调用的耗时和 token 用量
type LoggingProvider struct {
	inner Provider
}

func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)
	model := l.inner.ModelID()

	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	monitoring.LLMLatency.WithLabelValues(model, purpose).Observe(elapsed.Seconds())
	monitoring.LLMRequests.WithLabelValues(model, purpose, strconv.FormatBool(err == nil)).Inc()

	fields := []zap.Field{
		zap.String("model", model),
		zap.String("purpose", purpose),
		zap.Duration("latency", elapsed),
	}
	if resp != nil {
		monitoring.LLMTokens.WithLabelValues(model, "input").Add(float64(resp.Usage.InputTokens))
		monitoring.LLMTokens.WithLabelValues(model, "output").Add(float64(resp.Usage.OutputTokens))
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
		)
	}

	if err != nil {
		logger.Log.Warn("LLM request failed", append(fields, zap.Error(err))...)
	} else {
		logger.Log.Debug("LLM request completed", fields...)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
