// Package context carries request-scoped values (trace, user) through
// the layers without the domain depending on HTTP types.
package context

import "context"

// UserContext is the authenticated caller, as decoded from the access
// token by the auth middleware.
type UserContext struct {
	UserID    string
	Email     string
	Roles     []string
	IsAdmin   bool
	SessionID string
}

type userKey struct{}

// WithUser stores the caller in the context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns the caller, or nil for unauthenticated contexts
// (workers, tests).
func GetUser(ctx context.Context) *UserContext {
	user, _ := ctx.Value(userKey{}).(*UserContext)
	return user
}

// GetUserID returns the caller's id, or "" when unauthenticated. Used
// to stamp created_by/updated_by.
func GetUserID(ctx context.Context) string {
	if user := GetUser(ctx); user != nil {
		return user.UserID
	}
	return ""
}

// HasRole reports whether the caller holds the role. Admins pass any
// role check.
func (u *UserContext) HasRole(role string) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
