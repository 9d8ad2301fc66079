package llm

import "context"

type contextKey int

const (
	purposeKey contextKey = iota
	attemptsKey
)

// WithPurpose labels the requests made with ctx, e.g. "scoring".
// The label ends up in the request event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithMaxAttempts caps how many times a retrying provider may send the
// requests made with ctx. Callers that have a cheap fallback use it to fail
// fast. Values below 1 are ignored.
func WithMaxAttempts(ctx context.Context, n int) context.Context {
	if n < 1 {
		return ctx
	}
	return context.WithValue(ctx, attemptsKey, n)
}

func maxAttemptsFrom(ctx context.Context, fallback int) int {
	if v, ok := ctx.Value(attemptsKey).(int); ok {
		return min(v, max(fallback, 1))
	}
	return max(fallback, 1)
}
