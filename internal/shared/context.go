package shared

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

type sessionContextKey struct{}

// ContextWithSession attaches the console session loaded for the request.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the request's console session, or nil outside
// the session middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// RequestLogger annotates base with the request id chi assigned.
func RequestLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := middleware.GetReqID(ctx); id != "" {
		return base.With(slog.String("request_id", id))
	}
	return base
}
