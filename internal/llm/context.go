package llm

import "context"

type ctxKey struct{}

// WithPurpose 为日志和指标标记调用用途
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, ctxKey{}, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
