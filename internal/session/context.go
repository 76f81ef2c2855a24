package session

import "context"

type contextKey struct{}

// WithSessionID tags a context with the gateway session identifier so the
// backend client's unauthorized hook can reach the right session.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

// IDFromContext extracts the gateway session identifier, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(contextKey{}).(string)
	return sessionID, ok && sessionID != ""
}
