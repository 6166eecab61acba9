package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// CurrentUserID returns the authenticated user behind the request context.
// ok is false for anonymous callers.
func CurrentUserID(ctx context.Context) (int64, bool) {
	sess := SessionFromContext(ctx)
	if sess == nil || !sess.IsAuthenticated() {
		return 0, false
	}
	return sess.UserID(), true
}

// IsAuthenticated reports whether the request carries a logged in session.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := CurrentUserID(ctx)
	return ok
}
