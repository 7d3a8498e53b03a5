package access

import "context"

// AuthContext is the per-request authorization view of a caller: who they
// are, which organization is home, and the union of their roles'
// permissions. It is built fresh for every request and never cached, so a
// revocation is visible on the very next request.
type AuthContext struct {
	UserID         int64
	OrganizationID int64
	Permissions    map[Permission]struct{}
}

// NewAuthContext builds an immutable context from resolved permissions.
func NewAuthContext(userID, organizationID int64, perms []Permission) AuthContext {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return AuthContext{UserID: userID, OrganizationID: organizationID, Permissions: set}
}

// HasPermission reports whether the caller holds the permission directly.
func (a AuthContext) HasPermission(p Permission) bool {
	_, ok := a.Permissions[p]
	return ok
}

type authContextKey struct{}

// ContextWithAuth attaches the authorization context to the request context.
func ContextWithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, &ac)
}

// AuthFromContext extracts the authorization context if present.
func AuthFromContext(ctx context.Context) (AuthContext, bool) {
	if ctx == nil {
		return AuthContext{}, false
	}
	v, ok := ctx.Value(authContextKey{}).(*AuthContext)
	if !ok || v == nil {
		return AuthContext{}, false
	}
	return *v, true
}
