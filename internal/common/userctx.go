package common

import "context"

// UserContext holds the verified caller identity injected by the bearer
// middleware (or the trusted X-FinVoice-User-ID header). When absent the
// request is anonymous and path-scoped user ids are trusted as-is.
type UserContext struct {
	UserID string
	Role   string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}
