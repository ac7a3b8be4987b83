package authz

import "context"

// sessionCtxKey is a private type to prevent collisions with other context keys.
type sessionCtxKey struct{}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext retrieves the session from the context.
// Returns nil, false if no session is present.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return s, ok && s != nil
}
