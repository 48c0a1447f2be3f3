package core

import "context"

type contextKey string

const ctxKeyOrigin contextKey = "origin"

// Origin identifies who asked for an analysis. It only feeds log lines.
type Origin struct {
	IP        string
	UserAgent string
}

// WithOrigin attaches o to ctx.
func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, ctxKeyOrigin, o)
}

// OriginFrom returns the Origin stored in ctx, or the zero Origin.
func OriginFrom(ctx context.Context) Origin {
	o, _ := ctx.Value(ctxKeyOrigin).(Origin)
	return o
}
