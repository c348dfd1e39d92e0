// Package requestid carries a correlation id through a context so that every
// log record written while handling one notification can be joined up.
package requestid

import "context"

type contextKey struct{}

// WithContext returns ctx carrying id.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Ensure returns ctx unchanged when it already carries an id, otherwise a
// child context carrying fallback.
func Ensure(ctx context.Context, fallback string) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	if fallback == "" {
		return ctx, ""
	}
	return WithContext(ctx, fallback), fallback
}
