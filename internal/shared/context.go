package shared

import "context"

type sessionContextKey struct{}

// Identity describes the authenticated actor attached to a request. Role
// names are resolved once at login and carried in the session payload; the
// authorization layer validates them against its closed role set.
type Identity struct {
	UserID int64
	Roles  []string
}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// IdentityFromContext returns the actor identity for the request, or false
// when the request is anonymous.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return Identity{}, false
	}
	return sess.Identity()
}
